// Package stdlib provides the internal functions and builtin constants every
// program can call without declaring them.
package stdlib

import (
	"math"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/phpvm/vm"
)

// Functions maps each internal function name to its implementation.
var Functions = map[string]vm.InternalFunc{
	// Type conversions and checkers.
	"is_string": isString,
	"is_array":  isArray,
	"strval":    strval,
	"intval":    intval,
	// Strings and paths.
	"strlen":   strlen,
	"basename": basename,
	// Misc.
	"define":   define,
	"var_dump": varDump,
	// Arrays.
	"count":      count,
	"array_push": arrayPush,
}

// Constants are defined before any program runs.
var Constants = map[string]vm.Value{
	"PHP_EOL":     vm.StrValue("\n"),
	"PHP_INT_MAX": vm.IntValue(math.MaxInt64),
}

// Register installs every function and constant into g, skipping the names in
// disabled.
func Register(g *vm.Globals, disabled ...string) {
	for name, fn := range Functions {
		if slices.Contains(disabled, name) {
			log.Debug().Str("function", name).Msg("stdlib: function disabled")
			continue
		}
		g.DefineInternal(name, fn)
	}
	for name, v := range Constants {
		if slices.Contains(disabled, name) {
			continue
		}
		g.DefineConstant(name, v)
	}
}

// NewGlobals returns a registry with the standard library installed.
func NewGlobals(disabled ...string) *vm.Globals {
	g := vm.NewGlobals()
	Register(g, disabled...)
	return g
}

func arity(name string, args []vm.Value, n int) error {
	if len(args) != n {
		return vm.Errorf(vm.ErrArity, "%s() expects exactly %d argument(s), %d given", name, n, len(args))
	}
	return nil
}

func minArity(name string, args []vm.Value, n int) error {
	if len(args) < n {
		return vm.Errorf(vm.ErrArity, "%s() expects at least %d argument(s), %d given", name, n, len(args))
	}
	return nil
}

func stringArg(name string, args []vm.Value, i int) (string, error) {
	s, ok := args[i].(vm.StrValue)
	if !ok {
		return "", vm.Errorf(vm.ErrType, "%s(): argument #%d must be of type string, %s given", name, i+1, args[i].TypeName())
	}
	return string(s), nil
}

func arrayArg(name string, args []vm.Value, i int) (*vm.ArrayValue, error) {
	a, ok := args[i].(*vm.ArrayValue)
	if !ok {
		return nil, vm.Errorf(vm.ErrType, "%s(): argument #%d must be of type array, %s given", name, i+1, args[i].TypeName())
	}
	return a, nil
}
