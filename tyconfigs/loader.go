package tyconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/tyvm/configs"
	"github.com/reusee/tyvm/logs"
)

//go:embed schema.cue
var schema string

var configFilenames = []string{
	"tyvm.cue",
	".tyvm.cue",
	"tyvm.toml",
	".tyvm.toml",
}

// ConfigsLoader reads config files from the working directory, the user config dir and /etc.
// Earlier files take precedence.
func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	paths := findFiles(configFilenames, false)
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, schema)
}

// findFiles lists existing files under the working directory, the user config dir and /etc,
// most specific first, or most general first if generalFirst.
func findFiles(filenames []string, generalFirst bool) (paths []string) {
	var dirs []string
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	dirs = append(dirs, "/etc")

	if generalFirst {
		for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
			dirs[i], dirs[j] = dirs[j], dirs[i]
		}
	}

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}
