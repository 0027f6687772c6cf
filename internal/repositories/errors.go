package repositories

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a
	// unique constraint (email, username, enrollment pair)
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStaleVersion is returned when a compare-and-set update matched
	// zero rows because another writer got there first
	ErrStaleVersion = errors.New("stale version")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

func IsStaleVersion(err error) bool {
	return errors.Is(err, ErrStaleVersion)
}
