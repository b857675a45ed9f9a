package configs

import "reflect"

// Configurable types are settable from config files and config scripts.
// ConfigKey is the path of the value in config files.
type Configurable interface {
	ConfigKey() string
}

var configurableType = reflect.TypeFor[Configurable]()
