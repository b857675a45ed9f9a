package cmds

import (
	"fmt"
	"reflect"
)

// Command is a function bound to a name, or a set of sub commands that become available after it.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
	// ArgNames name the function parameters in usage, defaulting to their types
	ArgNames []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

func (c *Command) Args(names ...string) *Command {
	c.ArgNames = names
	return c
}

// Func wraps fn, which may return nothing or an error.
// Parameters are decoded from the following arguments; pointer parameters are optional.
func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}
	t := fnValue.Type()
	switch {
	case t.NumOut() > 1:
		panic(fmt.Errorf("must return 0 or 1 value, got %v", t))
	case t.NumOut() == 1 && t.Out(0) != errorType:
		panic(fmt.Errorf("must return error, got %v", t))
	case t.IsVariadic():
		panic(fmt.Errorf("variadic function not supported: %v", t))
	}
	return &Command{
		Func: fnValue,
	}
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}

func (c *Command) argNames() []string {
	if !c.Func.IsValid() {
		return nil
	}
	t := c.Func.Type()
	ret := make([]string, t.NumIn())
	for i := range ret {
		if i < len(c.ArgNames) {
			ret[i] = c.ArgNames[i]
		} else {
			ret[i] = t.In(i).String()
		}
		if t.In(i).Kind() == reflect.Pointer {
			ret[i] += "?"
		}
	}
	return ret
}
