package tyvm

import (
	"fmt"
	"math"

	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/values"
)

func (v *VM) exec(rt *Runtime, scope *Scope, inst *asms.Instruction) error {
	args := inst.Args

	switch inst.OpCode {
	case asms.Nop:

	case asms.Break:
		rt.logger.Debug("break", "session", rt.id, "method", inst.Method, "offset", inst.Offset)
		if v.onBreak != nil {
			v.onBreak(rt, inst)
		}
		if rt.settings.BreakInterrupts {
			rt.Interrupt()
		}

	case asms.Jmp:
		return jump(scope, inst)

	case asms.Jmpt, asms.Jmpf:
		test, err := v.value(scope, args[0])
		if err != nil {
			return err
		}
		b, ok := test.AsBool()
		if !ok {
			return fmt.Errorf("%w: %s test is %s, not bool", values.ErrTypeMismatch, inst.OpCode, test.Kind())
		}
		if b == (inst.OpCode == asms.Jmpt) {
			return jump(scope, inst)
		}

	case asms.Call:
		return v.call(rt, scope, inst)

	case asms.Return:
		result := values.Unit()
		if len(args) == 1 {
			var err error
			result, err = v.value(scope, args[0])
			if err != nil {
				return err
			}
		}
		return v.ret(rt, scope, result)

	case asms.EnterBlock:
		scope.Position++
		return rt.enterBlock()

	case asms.LeaveBlock:
		return rt.leaveBlock()

	case asms.Assign:
		val, err := v.value(scope, args[1])
		if err != nil {
			return err
		}
		if err := v.store(rt, scope, args[0], val); err != nil {
			return err
		}

	case asms.Define:
		// redefinition in the same scope, as in loops and reruns, resets the variable
		decl := args[0].(asms.VariableRef)
		scope.bind(decl.Name, decl.Type, values.Zero(decl.Type))

	case asms.LoadField:
		val, err := v.value(scope, args[1])
		if err != nil {
			return err
		}
		field := args[2].(asms.FieldRef).Name
		s, ok := val.AsStruct()
		if !ok {
			return fmt.Errorf("%w: field %s of %s", values.ErrTypeMismatch, field, val.Kind())
		}
		fv, ok := s.Get(field)
		if !ok {
			return fmt.Errorf("%w: %s has no field %s", asms.ErrResolution, s.TypeName, field)
		}
		if err := v.store(rt, scope, args[0], fv); err != nil {
			return err
		}

	case asms.StoreField:
		dst, err := v.value(scope, args[0])
		if err != nil {
			return err
		}
		field := args[1].(asms.FieldRef).Name
		val, err := v.value(scope, args[2])
		if err != nil {
			return err
		}
		s, ok := dst.AsStruct()
		if !ok {
			return fmt.Errorf("%w: field %s of %s", values.ErrTypeMismatch, field, dst.Kind())
		}
		if err := v.checkField(rt, s, field, val); err != nil {
			return err
		}
		if !s.Set(field, val) {
			return fmt.Errorf("%w: %s has no field %s", asms.ErrResolution, s.TypeName, field)
		}

	case asms.LoadElement:
		arr, idx, err := v.element(scope, args[1], args[2])
		if err != nil {
			return err
		}
		elem, ok := arr.Get(idx)
		if !ok {
			return fmt.Errorf("%w: index %d out of range [0, %d)", asms.ErrArgument, idx, arr.Len())
		}
		if err := v.store(rt, scope, args[0], elem); err != nil {
			return err
		}

	case asms.StoreElement:
		arr, idx, err := v.element(scope, args[0], args[1])
		if err != nil {
			return err
		}
		val, err := v.value(scope, args[2])
		if err != nil {
			return err
		}
		if !arr.Set(idx, val) {
			return fmt.Errorf("%w: index %d out of range [0, %d)", asms.ErrArgument, idx, arr.Len())
		}

	case asms.Length:
		val, err := v.value(scope, args[1])
		if err != nil {
			return err
		}
		var n int
		if arr, ok := val.AsArray(); ok {
			n = arr.Len()
		} else if str, ok := val.AsString(); ok {
			n = len([]rune(str))
		} else {
			return fmt.Errorf("%w: length of %s", values.ErrTypeMismatch, val.Kind())
		}
		if err := v.store(rt, scope, args[0], values.Number(float64(n))); err != nil {
			return err
		}

	case asms.Add, asms.Sub, asms.Mul, asms.Div, asms.Mod,
		asms.Eq, asms.Neq, asms.Lt, asms.Lte, asms.Gt, asms.Gte:
		a, err := v.value(scope, args[1])
		if err != nil {
			return err
		}
		b, err := v.value(scope, args[2])
		if err != nil {
			return err
		}
		res, err := binary(inst.OpCode, a, b)
		if err != nil {
			return err
		}
		if err := v.store(rt, scope, args[0], res); err != nil {
			return err
		}

	case asms.Neg:
		val, err := v.value(scope, args[1])
		if err != nil {
			return err
		}
		n, ok := val.AsNumber()
		if !ok {
			return fmt.Errorf("%w: neg of %s", values.ErrTypeMismatch, val.Kind())
		}
		if err := v.store(rt, scope, args[0], values.Number(-n)); err != nil {
			return err
		}

	case asms.Not:
		val, err := v.value(scope, args[1])
		if err != nil {
			return err
		}
		b, ok := val.AsBool()
		if !ok {
			return fmt.Errorf("%w: not of %s", values.ErrTypeMismatch, val.Kind())
		}
		if err := v.store(rt, scope, args[0], values.Bool(!b)); err != nil {
			return err
		}

	case asms.NewArray:
		elems := make([]values.Value, 0, len(args)-1)
		for _, arg := range args[1:] {
			val, err := v.value(scope, arg)
			if err != nil {
				return err
			}
			elems = append(elems, val)
		}
		if err := v.store(rt, scope, args[0], values.NewArray(elems...)); err != nil {
			return err
		}

	case asms.NewStruct:
		def, err := rt.asm.FindType(args[1].(asms.TypeRef).Name)
		if err != nil {
			return err
		}
		if len(args)-2 > len(def.Fields) {
			return fmt.Errorf("%w: %s has %d fields, got %d initializers", asms.ErrArgument, def.Name, len(def.Fields), len(args)-2)
		}
		inits := make([]values.Value, len(def.Fields))
		for i, f := range def.Fields {
			inits[i] = values.Zero(f.Type)
		}
		for i, arg := range args[2:] {
			val, err := v.value(scope, arg)
			if err != nil {
				return err
			}
			if rt.settings.StrictTypes && !values.Admits(def.Fields[i].Type, val) {
				return fmt.Errorf("%w: field %s.%s is %s, got %s", values.ErrTypeMismatch, def.Name, def.Fields[i].Name, def.Fields[i].Type, val.Kind())
			}
			inits[i] = val
		}
		if err := v.store(rt, scope, args[0], values.NewStruct(def.Name, def.FieldNames(), inits...)); err != nil {
			return err
		}

	case asms.Append:
		dst, err := v.value(scope, args[0])
		if err != nil {
			return err
		}
		arr, ok := dst.AsArray()
		if !ok {
			return fmt.Errorf("%w: append to %s", values.ErrTypeMismatch, dst.Kind())
		}
		val, err := v.value(scope, args[1])
		if err != nil {
			return err
		}
		arr.Append(val)

	default:
		return fmt.Errorf("%w: unknown opcode %v", asms.ErrAssembly, inst.OpCode)
	}

	scope.Position++
	return nil
}

func jump(scope *Scope, inst *asms.Instruction) error {
	offset, ok := inst.Target.Offset()
	if !ok {
		return assemblyErrorf("unresolved label %s", inst.Target)
	}
	if offset < 0 || offset > len(scope.Code) {
		return assemblyErrorf("jump target %d out of range", offset)
	}
	scope.Position = offset
	return nil
}

func (v *VM) call(rt *Runtime, scope *Scope, inst *asms.Instruction) error {
	method, result, ok := inst.CallTarget()
	if !ok {
		return assemblyErrorf("malformed call")
	}
	args := make([]values.Value, 0, len(inst.OperandArgs))
	for _, arg := range inst.OperandArgs {
		val, err := v.value(scope, arg)
		if err != nil {
			return err
		}
		args = append(args, val)
	}

	if m := rt.asm.FindMethod(method.Name); m != nil && !m.Native {
		callee, err := rt.BeginScope(m, args)
		if err != nil {
			return err
		}
		callee.call = inst
		return nil
	}

	fn, ok := v.hosts[method.Name]
	if !ok {
		return unresolvedFunction(method.Name)
	}
	ret, err := fn.Call(rt, args)
	if err != nil {
		return err
	}
	if result != nil {
		if err := v.store(rt, scope, result, ret); err != nil {
			return err
		}
	}
	scope.Position++
	return nil
}

// ret leaves the enclosing blocks, then the method scope. A return in global code halts the stream.
func (v *VM) ret(rt *Runtime, scope *Scope, result values.Value) error {
	for scope.block {
		scope.Position = len(scope.Code)
		if err := rt.leaveBlock(); err != nil {
			return err
		}
		scope = rt.CurrentScope()
	}
	if scope.IsGlobal() {
		scope.Result = result
		scope.Position = len(scope.Code)
		return nil
	}
	return v.finishCall(rt, scope, result)
}

func (v *VM) value(scope *Scope, op asms.Operand) (values.Value, error) {
	switch op := op.(type) {
	case asms.Const:
		return op.Value, nil
	case asms.VariableRef, asms.ParamRef:
		name, _ := asms.VariableName(op)
		variable, err := scope.FindVariable(name)
		if err != nil {
			return values.Unit(), err
		}
		return variable.Value, nil
	}
	return values.Unit(), fmt.Errorf("%w: %v is not a value", asms.ErrArgument, op)
}

func (v *VM) store(rt *Runtime, scope *Scope, op asms.Operand, val values.Value) error {
	name, ok := asms.VariableName(op)
	if !ok {
		return fmt.Errorf("%w: cannot store into %v", asms.ErrArgument, op)
	}
	variable, err := scope.FindVariable(name)
	if err != nil {
		return err
	}
	return variable.Assign(val, rt.settings.StrictTypes)
}

func (v *VM) checkField(rt *Runtime, s *values.Struct, field string, val values.Value) error {
	if !rt.settings.StrictTypes {
		return nil
	}
	def, err := rt.asm.FindType(s.TypeName)
	if err != nil {
		return nil
	}
	for _, f := range def.Fields {
		if f.Name == field && !values.Admits(f.Type, val) {
			return fmt.Errorf("%w: field %s.%s is %s, got %s", values.ErrTypeMismatch, def.Name, f.Name, f.Type, val.Kind())
		}
	}
	return nil
}

func (v *VM) element(scope *Scope, arrOp, idxOp asms.Operand) (*values.Array, int, error) {
	val, err := v.value(scope, arrOp)
	if err != nil {
		return nil, 0, err
	}
	arr, ok := val.AsArray()
	if !ok {
		return nil, 0, fmt.Errorf("%w: index into %s", values.ErrTypeMismatch, val.Kind())
	}
	idxVal, err := v.value(scope, idxOp)
	if err != nil {
		return nil, 0, err
	}
	f, ok := idxVal.AsNumber()
	if !ok {
		return nil, 0, fmt.Errorf("%w: index is %s", values.ErrTypeMismatch, idxVal.Kind())
	}
	if f != math.Trunc(f) {
		return nil, 0, fmt.Errorf("%w: fractional index %v", asms.ErrArgument, f)
	}
	return arr, int(f), nil
}

func binary(op asms.OpCode, a, b values.Value) (values.Value, error) {
	switch op {
	case asms.Eq:
		return values.Bool(values.Equal(a, b)), nil
	case asms.Neq:
		return values.Bool(!values.Equal(a, b)), nil
	case asms.Lt, asms.Lte, asms.Gt, asms.Gte:
		c, err := values.Compare(a, b)
		if err != nil {
			return values.Unit(), err
		}
		switch op {
		case asms.Lt:
			return values.Bool(c < 0), nil
		case asms.Lte:
			return values.Bool(c <= 0), nil
		case asms.Gt:
			return values.Bool(c > 0), nil
		}
		return values.Bool(c >= 0), nil
	}

	if op == asms.Add {
		_, aStr := a.AsString()
		_, bStr := b.AsString()
		if aStr || bStr {
			return values.String(a.String() + b.String()), nil
		}
	}
	x, ok1 := a.AsNumber()
	y, ok2 := b.AsNumber()
	if !ok1 || !ok2 {
		return values.Unit(), fmt.Errorf("%w: %s %s %s", values.ErrTypeMismatch, a.Kind(), op, b.Kind())
	}
	switch op {
	case asms.Add:
		return values.Number(x + y), nil
	case asms.Sub:
		return values.Number(x - y), nil
	case asms.Mul:
		return values.Number(x * y), nil
	case asms.Div:
		return values.Number(x / y), nil
	case asms.Mod:
		return values.Number(math.Mod(x, y)), nil
	}
	return values.Unit(), fmt.Errorf("%w: %s is not binary", asms.ErrAssembly, op)
}
