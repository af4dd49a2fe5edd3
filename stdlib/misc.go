package stdlib

import (
	"github.com/timewinder-dev/phpvm/vm"
)

// define creates a named constant at runtime. Later definitions of the same
// name replace earlier ones.
func define(h vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("define", args, 2); err != nil {
		return nil, err
	}
	name, err := stringArg("define", args, 0)
	if err != nil {
		return nil, err
	}
	h.Globals().DefineConstant(name, args[1])
	return vm.True, nil
}

func varDump(h vm.Host, args []vm.Value) (vm.Value, error) {
	if err := minArity("var_dump", args, 1); err != nil {
		return nil, err
	}
	for _, v := range args {
		if err := vm.Dump(h.Output(), v); err != nil {
			return nil, err
		}
	}
	return vm.Null, nil
}
