package ioreader

import "golang.org/x/exp/mmap"

// Mmap is the memory-mapped Reader implementation. It delegates the actual
// mapping to golang.org/x/exp/mmap, whose ReaderAt already presents the
// entire file as one contiguous, randomly addressable range — so unlike a
// hand-rolled segmented mapping, seams between OS-level mapping windows
// never reach ReadRange's caller; every read this package issues goes
// through a single ReaderAt.ReadAt call and is materialized into one
// contiguous []byte before any primitive is decoded from it.
//
// x/exp/mmap only maps files read-only, so Mmap has no Writer counterpart;
// the read-write mode mentioned by the reader/writer contract is served by
// Stream instead.
type Mmap struct {
	*readerAtBase
	ra *mmap.ReaderAt
}

// NewMmap memory-maps path for read-only positioned access.
func NewMmap(path string) (*Mmap, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &Mmap{readerAtBase: newReaderAtBase(ra, int64(ra.Len())), ra: ra}, nil
}

func (m *Mmap) Close() error { return m.ra.Close() }
