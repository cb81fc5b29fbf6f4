package hierarchy

import "errors"

// Error taxonomy for hierarchy builds. ErrInvalidRoot ends a build before it
// starts; ErrAccess classifies per-entry failures the walk skips over, so a
// single bad file or directory never aborts its siblings.
var (
	ErrInvalidRoot = errors.New("root path does not exist or is not a directory")
	ErrAccess      = errors.New("entry not accessible")
)
