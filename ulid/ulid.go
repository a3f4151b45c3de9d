// Package ulid generates the 128-bit lexicographically sortable identifiers
// (millisecond timestamp + randomness) used throughout nngmux as MessageType,
// InstanceId, SessionId, ReqRepId and MessageId.
package ulid

import (
	"crypto/rand"
	"sync"
	"time"

	oklog "github.com/oklog/ulid/v2"
)

// ID is a 128-bit ULID value. It is comparable, hashable and orderable
// (lexicographic byte order matches chronological order).
type ID [16]byte

// Nil is the zero-value ID.
var Nil ID

// generator serializes access to a single monotonic entropy source so that
// IDs minted within the same millisecond still sort strictly increasing.
type generator struct {
	mu      sync.Mutex
	entropy *oklog.MonotonicEntropy
}

var global = newGenerator()

func newGenerator() *generator {
	return &generator{entropy: oklog.Monotonic(rand.Reader, 0)}
}

// New mints a fresh ID whose timestamp component is the current time.
func New() ID {
	return newAt(time.Now())
}

func newAt(t time.Time) ID {
	global.mu.Lock()
	defer global.mu.Unlock()

	u, err := oklog.New(oklog.Timestamp(t), global.entropy)
	if err != nil {
		// entropy source exhausted for this millisecond tick; fall back to a
		// fresh (non-monotonic) random ULID rather than propagate an error
		// from what callers treat as an infallible constructor.
		u = oklog.MustNew(oklog.Timestamp(t), rand.Reader)
	}
	var id ID
	copy(id[:], u[:])
	return id
}

// Time returns the millisecond-resolution creation timestamp encoded in the ID.
func (id ID) Time() time.Time {
	return oklog.Time(oklog.ULID(id).Time())
}

// String returns the canonical Crockford base32 encoding.
func (id ID) String() string {
	return oklog.ULID(id).String()
}

// Compare reports the lexicographic ordering of id and other: <0, 0, >0.
func (id ID) Compare(other ID) int {
	return oklog.ULID(id).Compare(oklog.ULID(other))
}

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool {
	return id == Nil
}

// Parse decodes a canonical ULID string.
func Parse(s string) (ID, error) {
	u, err := oklog.ParseStrict(s)
	if err != nil {
		return Nil, err
	}
	var id ID
	copy(id[:], u[:])
	return id, nil
}
