package ioreader

import "bytes"

// Memory is a Reader implementation backed by an in-memory byte slice,
// sharing the same readerAtBase primitives as Stream and Mmap. Used when a
// file's size is within fileSizeLimitToKeepInMemory (the whole file is
// slurped once with os.ReadFile) and for constructing Readers over
// programmatically-built data such as round-trip tests.
type Memory struct {
	*readerAtBase
}

// NewMemory wraps data for positioned reading. Multiple independent Memory
// readers may share the same underlying slice without interfering with each
// other's cursors, since bytes.Reader.ReadAt never mutates shared state.
func NewMemory(data []byte) *Memory {
	return &Memory{readerAtBase: newReaderAtBase(bytes.NewReader(data), int64(len(data)))}
}

func (m *Memory) Close() error { return nil }
