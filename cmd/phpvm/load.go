package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/phpvm/cas"
	"github.com/timewinder-dev/phpvm/config"
	"github.com/timewinder-dev/phpvm/stdlib"
	"github.com/timewinder-dev/phpvm/vm"
)

// loadProgram returns the program in path with a registry holding the
// standard library and the program's declarations. Source files go through
// the cache when useCache is set and the cache is enabled; .phpc files are
// read as serialized bytecode.
func loadProgram(c *config.Config, path string, useCache bool) (*vm.Program, *vm.Globals, error) {
	g := stdlib.NewGlobals(c.Stdlib.Disabled...)

	if filepath.Ext(path) == cas.Ext {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		var p vm.Program
		if err := p.Deserialize(f); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		p.Install(g)
		return &p, g, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if !useCache || !c.Cache.Enabled {
		p, err := vm.CompileSource(path, string(src), g)
		return p, g, err
	}

	store, err := openCache(c)
	if err != nil {
		return nil, nil, err
	}
	p, hit, err := cas.Compile(store, path, src, g)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Bool("hit", hit).Str("dir", c.Cache.Dir).Msg("compiled through cache")
	return p, g, nil
}

func openCache(c *config.Config) (cas.CAS, error) {
	disk, err := cas.NewDiskCAS(c.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	lru, err := cas.NewLRUCache(disk, c.Cache.MemoryEntries)
	if err != nil {
		return nil, err
	}
	return lru, nil
}
