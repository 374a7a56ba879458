package static

import "errors"

var (
	ErrRootNotFound = errors.New("static: root directory not found")
	ErrRootNotDir   = errors.New("static: root is not a directory")
)
