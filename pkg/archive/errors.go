package archive

import "errors"

var (
	// ErrInvalidPattern reports an exclusion or fold pattern that does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrMissingInput reports, in strict mode, an input that is neither a file nor a directory.
	ErrMissingInput = errors.New("input path does not exist")
	// ErrEntryExists reports a duplicate entry name on a container opened without overwrite.
	ErrEntryExists = errors.New("archive entry already exists")
	// ErrContainerClosed reports use of a container after Close or Abort.
	ErrContainerClosed = errors.New("archive container is closed")
)
