package resultcache

import "errors"

var (
	// ErrEncode is returned when a result cannot be serialized for storage.
	ErrEncode = errors.New("resultcache: encode result")
	// ErrDecode is returned when a stored entry cannot be read back.
	ErrDecode = errors.New("resultcache: decode result")
)
