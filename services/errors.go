package services

import "fmt"

// ValidationError rejects bad input before any storage mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a durable-write or query failure. The engine never
// retries; callers decide.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageFail(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
