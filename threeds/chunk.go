package threeds

import (
	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
)

// chunkHeader is one 3DS tagged chunk's id and total length (header
// included), the fixed-width analogue of the EBML element header from
// other_examples' Matroska reader.
type chunkHeader struct {
	id  uint16
	end int64 // absolute offset one past this chunk's last byte
}

// readChunkHeader reads the 6-byte id+length header at r's current
// position and returns the chunk's id and its end offset relative to the
// position r was at before the read.
func readChunkHeader(r ioreader.Reader) (chunkHeader, error) {
	start, err := r.Position()
	if err != nil {
		return chunkHeader{}, loader.Wrap(loader.IOFailure, "read chunk position", err)
	}
	id, err := r.ReadUint16()
	if err != nil {
		return chunkHeader{}, loader.Wrap(loader.IOFailure, "read chunk id", err)
	}
	length, err := r.ReadUint32()
	if err != nil {
		return chunkHeader{}, loader.Wrap(loader.IOFailure, "read chunk length", err)
	}
	if length < 6 {
		return chunkHeader{}, loader.New(loader.Malformed, "3ds chunk length shorter than its own header")
	}
	return chunkHeader{id: uint16(id), end: start + length}, nil
}

// walkChunks reads chunk headers at r's current position until end is
// reached, invoking handle for each; handle is responsible for consuming
// or skipping the chunk's body (walkChunks forces the cursor to the
// chunk's end afterward regardless, so a handler may read only part of a
// chunk and still leave the walk in a consistent state) — the same
// "read header, dispatch, force-seek to computed end" idiom the EBML
// reader uses via SkipElement.
func walkChunks(r ioreader.Reader, end int64, handle func(h chunkHeader) error) error {
	for {
		pos, err := r.Position()
		if err != nil {
			return loader.Wrap(loader.IOFailure, "read position", err)
		}
		if pos >= end {
			return nil
		}
		h, err := readChunkHeader(r)
		if err != nil {
			return err
		}
		if h.end > end {
			return loader.New(loader.Malformed, "3ds chunk overruns its parent")
		}
		if err := handle(h); err != nil {
			return err
		}
		if err := r.Seek(h.end); err != nil {
			return loader.Wrap(loader.IOFailure, "seek past 3ds chunk", err)
		}
	}
}
