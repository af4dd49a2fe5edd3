package stdlib

import (
	"path"
	"strings"

	"github.com/timewinder-dev/phpvm/vm"
)

func strlen(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("strlen", args, 1); err != nil {
		return nil, err
	}
	s, err := stringArg("strlen", args, 0)
	if err != nil {
		return nil, err
	}
	return vm.IntValue(len(s)), nil
}

// basename returns the trailing component of a slash-separated path.
// Trailing slashes are ignored, and a path of only slashes yields "".
func basename(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("basename", args, 1); err != nil {
		return nil, err
	}
	p, err := stringArg("basename", args, 0)
	if err != nil {
		return nil, err
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return vm.StrValue(""), nil
	}
	return vm.StrValue(path.Base(p)), nil
}
