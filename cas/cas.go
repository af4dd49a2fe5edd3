// Package cas is a content-addressed store for compiled programs. Entries are
// keyed by a fingerprint of the source they were compiled from.
package cas

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dgryski/go-farm"
)

type CAS interface {
	Put(hash Hash, item Serde) error
	Get(hash Hash, into Serde) (bool, error)
	Has(hash Hash) bool
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

// byteStore is implemented by stores that keep serialized bytes, which lets
// LRUCache sit in front of them.
type byteStore interface {
	getValue(h Hash) (bool, []byte, error)
	putValue(h Hash, data []byte) error
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// SourceHash fingerprints source text together with the bytecode format
// version, so a compiler change never serves stale programs.
func SourceHash(version int, src []byte) Hash {
	buf := make([]byte, 8, 8+len(src))
	binary.LittleEndian.PutUint64(buf, uint64(version))
	buf = append(buf, src...)
	return Hash(farm.Fingerprint64(buf))
}

func put(s byteStore, h Hash, item Serde) error {
	var buf bytes.Buffer
	if err := item.Serialize(&buf); err != nil {
		return err
	}
	return s.putValue(h, buf.Bytes())
}

func get(s byteStore, h Hash, into Serde) (bool, error) {
	ok, data, err := s.getValue(h)
	if err != nil || !ok {
		return false, err
	}
	if err := into.Deserialize(bytes.NewReader(data)); err != nil {
		return false, fmt.Errorf("deserializing %s: %w", h, err)
	}
	return true, nil
}
