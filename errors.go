package edge

import "errors"

var (
	ErrListen       = errors.New("edge: failed to listen")
	ErrNoHosts      = errors.New("edge: no hosts registered")
	ErrRegisterHost = errors.New("edge: failed to register host")
)
