// Package id hands out ULID trade identifiers. IDs sort
// lexicographically by creation time, so a ledger scan ordered by id
// follows entry order.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// generator serializes access to a monotonic entropy source so that
// IDs minted within the same millisecond still strictly increase.
type generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var gen = newGenerator()

func newGenerator() *generator {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		binary.BigEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	}
	seed := int64(binary.BigEndian.Uint64(buf[:]))
	return &generator{
		entropy: ulid.Monotonic(mrand.New(mrand.NewSource(seed)), 0),
	}
}

// New mints a fresh ULID string.
func New() string {
	gen.mu.Lock()
	defer gen.mu.Unlock()
	return ulid.MustNew(ulid.Now(), gen.entropy).String()
}
