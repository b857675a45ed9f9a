package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/debugs"
	"github.com/reusee/tyvm/tyconfigs"
)

type Module struct {
	dscope.Module
	Configs tyconfigs.Module
	Debugs  debugs.Module
}
