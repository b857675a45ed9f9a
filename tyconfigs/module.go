package tyconfigs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/configs"
	"github.com/reusee/tyvm/logs"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}
