package engine

import "errors"

var (
	// ErrKeyNotFound is returned by Snapshot.Get when the requested key
	// does not exist. Backends translate their own not-found errors into
	// this value so that callers never need to import a specific engine.
	ErrKeyNotFound = errors.New("engine: key not found")

	// ErrIterReleased is returned by iterator operations performed after
	// the iterator has been released.
	ErrIterReleased = errors.New("engine: iterator released")
)

// Engine is an embedded key/record storage engine. Writes go through a
// Transaction and only become visible once Commit returns; reads go
// through a point-in-time Snapshot. Commit must be atomic and durable:
// either every Put and Delete in the transaction is applied, or none is.
type Engine interface {
	Transaction() (Transaction, error)
	Snapshot() (Snapshot, error)
	Close() error
}

// Transaction is a set of pending writes. A transaction that is not
// committed must be discarded to release its resources.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
	Discard()
}

// Snapshot is a consistent read-only view of the engine taken at a single
// point in time. Get returns ErrKeyNotFound for missing keys.
type Snapshot interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	NewIterator(*Range) Iterator
	Releaser
}

type Releaser interface {
	Release()
}

// Iterator walks the key/value pairs of a snapshot in ascending key
// order. It starts positioned before the first pair.
type Iterator interface {
	// First moves the iterator to the first key/value pair.
	// It returns whether such a pair exists.
	First() bool

	// Next moves the iterator to the next key/value pair.
	// It returns false if the iterator is exhausted.
	Next() bool

	// Seek moves the iterator to the first key/value pair whose key is
	// greater than or equal to the given key.
	// It returns whether such a pair exists.
	Seek(key []byte) bool

	// Valid reports whether the iterator is positioned at a pair.
	Valid() bool

	// Error returns any accumulated error. Exhausting all the key/value
	// pairs is not considered to be an error.
	Error() error

	// Key returns the key of the current key/value pair, or nil if done.
	// The caller should not modify the contents of the returned slice,
	// and its contents may change on the next call to any seek method.
	Key() []byte

	// Value returns the value of the current key/value pair, or nil if
	// done. The same ownership rules as for Key apply.
	Value() []byte

	Releaser
}

// Range is a key range. Start is included, Limit is not. A nil Limit
// means the range is unbounded above.
type Range struct {
	Start []byte
	Limit []byte
}

// BytesPrefix returns the key range that satisfies the given prefix.
func BytesPrefix(prefix []byte) *Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return &Range{Start: prefix, Limit: limit}
}
