// Package idgen generates note and message identifiers; the generator can be
// replaced in tests.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc generates identifiers, random UUIDs by default
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier
func New() string { return NewFunc() }

// Sequence replaces the generator with prefix-1, prefix-2, ... and returns a restore func
func Sequence(prefix string) (restore func()) {
	previous := NewFunc
	var counter int64
	NewFunc = func() string {
		return prefix + "-" + strconv.FormatInt(atomic.AddInt64(&counter, 1), 10)
	}
	return func() { NewFunc = previous }
}
