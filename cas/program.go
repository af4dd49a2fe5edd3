package cas

import (
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/phpvm/vm"
)

// Compile returns the program for src, reusing the entry in c when one exists.
// A cached program has its functions and constants installed into g; a fresh
// compilation writes them into g directly and is stored in c. The boolean
// reports a cache hit.
func Compile(c CAS, name string, src []byte, g *vm.Globals) (*vm.Program, bool, error) {
	h := SourceHash(vm.FormatVersion, src)
	var prog vm.Program
	ok, err := c.Get(h, &prog)
	if err != nil {
		// A corrupt entry is recompiled and overwritten.
		log.Warn().Err(err).Str("file", name).Str("hash", h.String()).Msg("cas: discarding unreadable entry")
		ok = false
	}
	if ok {
		log.Debug().Str("file", name).Str("hash", h.String()).Msg("cas: hit")
		prog.Install(g)
		return &prog, true, nil
	}
	log.Debug().Str("file", name).Str("hash", h.String()).Msg("cas: miss")
	p, err := vm.CompileSource(name, string(src), g)
	if err != nil {
		return nil, false, err
	}
	if err := c.Put(h, p); err != nil {
		return nil, false, err
	}
	return p, false, nil
}
