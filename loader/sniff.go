package loader

import (
	"bytes"
	"encoding/binary"
	"os"
)

// Sniff identifies a file's format from its magic bytes without fully
// parsing it, per §6's "File formats (consumed)" magic rules:
//   - PLY starts with "ply\n"
//   - 3DS begins with 0x4D 0x4D
//   - binary STL has length == 84 + 50*triangleCount matching its count header
//   - ASCII STL begins with "solid "
//   - glTF/GLB begins with the 4-byte magic "glTF" (little-endian 0x46546C67)
//   - OBJ falls through as the default text format
func Sniff(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, Wrap(IOFailure, "open file for sniffing", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FormatUnknown, Wrap(IOFailure, "stat file for sniffing", err)
	}
	size := info.Size()

	head := make([]byte, 84)
	n, _ := f.ReadAt(head, 0)
	head = head[:n]

	if bytes.HasPrefix(head, []byte("ply\n")) || bytes.HasPrefix(head, []byte("ply\r\n")) {
		return sniffPLYStorageMode(f)
	}

	if len(head) >= 2 && head[0] == 0x4D && head[1] == 0x4D {
		return Format3DS, nil
	}

	if len(head) >= 4 && binary.LittleEndian.Uint32(head[:4]) == 0x46546C67 {
		return FormatGLTF, nil
	}

	if len(head) >= 84 {
		triCount := binary.LittleEndian.Uint32(head[80:84])
		if int64(84)+int64(triCount)*50 == size {
			return FormatSTL, nil
		}
	}

	if bytes.HasPrefix(head, []byte("solid ")) || bytes.Equal(bytes.TrimRight(head, "\r\n"), []byte("solid")) {
		return FormatSTL, nil
	}

	return FormatOBJ, nil
}

// sniffPLYStorageMode reads just far enough into the header to tell ascii
// from binary-little-endian from binary-big-endian.
func sniffPLYStorageMode(f *os.File) (Format, error) {
	buf := make([]byte, 256)
	n, _ := f.ReadAt(buf, 0)
	buf = buf[:n]
	switch {
	case bytes.Contains(buf, []byte("format binary_little_endian")):
		return FormatPLYBinaryLittleEndian, nil
	case bytes.Contains(buf, []byte("format binary_big_endian")):
		return FormatPLYBinaryBigEndian, nil
	default:
		return FormatPLYAscii, nil
	}
}
