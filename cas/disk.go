package cas

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Ext is the file extension of serialized programs.
const Ext = ".phpc"

// DiskCAS keeps one file per entry, named by its hash, in a single directory.
type DiskCAS struct {
	dir string
}

// NewDiskCAS creates dir if needed.
func NewDiskCAS(dir string) (*DiskCAS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCAS{dir: dir}, nil
}

func (d *DiskCAS) Dir() string {
	return d.dir
}

func (d *DiskCAS) path(h Hash) string {
	return filepath.Join(d.dir, h.String()+Ext)
}

func (d *DiskCAS) getValue(h Hash) (bool, []byte, error) {
	data, err := os.ReadFile(d.path(h))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, data, nil
}

// putValue writes through a temporary file so readers never see a partial
// entry.
func (d *DiskCAS) putValue(h Hash, data []byte) error {
	f, err := os.CreateTemp(d.dir, h.String()+"-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, d.path(h)); err != nil {
		os.Remove(tmp)
		return err
	}
	log.Debug().Str("hash", h.String()).Int("bytes", len(data)).Str("dir", d.dir).Msg("cas: wrote entry")
	return nil
}

func (d *DiskCAS) Has(hash Hash) bool {
	_, err := os.Stat(d.path(hash))
	return err == nil
}

func (d *DiskCAS) Put(hash Hash, item Serde) error {
	return put(d, hash, item)
}

func (d *DiskCAS) Get(hash Hash, into Serde) (bool, error) {
	return get(d, hash, into)
}
