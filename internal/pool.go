package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds buffers used to encode payloads. Buffers must be reset before they are put back.
var BufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 128))
	},
}

// Buffer takes a buffer from BufferPool.
func Buffer() *bytes.Buffer {
	return BufferPool.Get().(*bytes.Buffer)
}

// ReleaseBuffer resets a buffer and puts it back in BufferPool.
func ReleaseBuffer(buf *bytes.Buffer) {
	buf.Reset()
	BufferPool.Put(buf)
}
