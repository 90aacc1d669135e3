package hooks

import "bytes"

// truncationMarker terminates captures that hit the byte cap
const truncationMarker = "\n[output truncated]"

// captureBuffer collects subprocess output up to a byte cap. Writes
// past the cap are consumed and dropped so a chatty hook never blocks
// on a full pipe.
type captureBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newCaptureBuffer(limit int) *captureBuffer {
	return &captureBuffer{limit: limit}
}

func (b *captureBuffer) Write(p []byte) (int, error) {
	remain := b.limit - b.buf.Len()
	if remain > 0 {
		n := len(p)
		if n > remain {
			n = remain
		}
		b.buf.Write(p[:n])
	}
	if len(p) > remain {
		b.truncated = true
	}
	return len(p), nil
}

func (b *captureBuffer) String() string {
	if b.truncated {
		return b.buf.String() + truncationMarker
	}
	return b.buf.String()
}
