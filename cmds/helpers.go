package cmds

// VarOf defines name VALUE on e to set the returned variable, and name. to reset it.
func VarOf[T any](e *Executor, name string) *T {
	value := new(T)
	e.Define(name, Func(func(v T) {
		*value = v
	}).Desc("set "+name))
	e.Define(name+".", Func(func() {
		var zero T
		*value = zero
	}).Desc("reset "+name))
	return value
}

// SwitchOf defines name to turn the returned flag on and !name to turn it off.
func SwitchOf(e *Executor, name string) *bool {
	value := new(bool)
	e.Define(name, Func(func() {
		*value = true
	}).Desc("turn on "+name))
	e.Define("!"+name, Func(func() {
		*value = false
	}).Desc("turn off "+name))
	return value
}

// CollectOf defines name VALUE to append to the returned slice.
func CollectOf[T any](e *Executor, name string) *[]T {
	values := new([]T)
	e.Define(name, Func(func(v T) {
		*values = append(*values, v)
	}).Desc("add to "+name))
	return values
}

func Var[T any](name string) *T {
	return VarOf[T](GlobalExecutor, name)
}

func Switch(name string) *bool {
	return SwitchOf(GlobalExecutor, name)
}

func Collect[T any](name string) *[]T {
	return CollectOf[T](GlobalExecutor, name)
}
