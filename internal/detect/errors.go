package detect

import "errors"

var (
	ErrNoBoundary   = errors.New("detect: no boundary pieces in frame")
	ErrStreamClosed = errors.New("detect: stream closed")
	ErrStreamFailed = errors.New("detect: stream reconnect attempts exhausted")
)
