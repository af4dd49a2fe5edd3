package stdlib

import (
	"github.com/timewinder-dev/phpvm/vm"
)

func count(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("count", args, 1); err != nil {
		return nil, err
	}
	a, err := arrayArg("count", args, 0)
	if err != nil {
		return nil, err
	}
	return vm.IntValue(a.Len()), nil
}

// arrayPush appends in place, so every variable holding the array sees the
// new elements. It returns the new length.
func arrayPush(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := minArity("array_push", args, 1); err != nil {
		return nil, err
	}
	a, err := arrayArg("array_push", args, 0)
	if err != nil {
		return nil, err
	}
	for _, v := range args[1:] {
		a.Append(v)
	}
	return vm.IntValue(a.Len()), nil
}
