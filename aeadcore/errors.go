package aeadcore

import "errors"

// ErrInternal signals a failure inside an underlying primitive that should
// be impossible in practice (e.g. a key-size mismatch the caller already
// validated). The reference implementation this engine re-architects aborts
// the process on this condition (see spec's Design Notes); here it is
// surfaced as an ordinary error and left to the caller to decide whether to
// drop the connection or escalate further.
var ErrInternal = errors.New("aeadcore: internal primitive failure")

// ErrKeySize is returned when a caller-supplied key does not match the
// method's fixed key length.
var ErrKeySize = errors.New("aeadcore: invalid key size")
