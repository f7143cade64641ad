package watchlist

import "fmt"

// PersistError reports that an operation was applied in memory but the
// write-through to the storage slot failed. It is not fatal: the store stays
// consistent and retries the write on the next operation.
type PersistError struct {
	Op  string // Operation that triggered the write
	Err error  // Underlying storage error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist watchlists after %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
