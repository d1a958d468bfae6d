package storage

import "fmt"

// UploadError reports a failed object write. It carries the remote
// diagnostic so handlers can surface it to the admin UI.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DeleteError reports a failed object removal. Replace and delete flows
// log these and continue; an orphaned file is preferred over a blocked edit.
type DeleteError struct {
	Key string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %q: %v", e.Key, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
