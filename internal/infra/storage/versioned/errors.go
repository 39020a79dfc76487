package versioned

import "fmt"

// StorageErr wraps failures of the durable Backend
type StorageErr struct {
	Underlying error
}

func (e StorageErr) Error() string {
	return fmt.Sprintf("Storage backend failure: %v", e.Underlying)
}

func (e StorageErr) Unwrap() error {
	return e.Underlying
}
