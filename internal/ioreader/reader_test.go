package ioreader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-mesh/meshio/internal/endian"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "scratch.bin")
}

// TestReaderPrimitiveRoundTrip is the module's concrete scenario 1: write
// -3252 as int16 big-endian then little-endian, reopen read-only, and
// check both encodings read back correctly with the right file length.
func TestReaderPrimitiveRoundTrip(t *testing.T) {
	path := tempPath(t)
	w, err := NewStreamWriter(path)
	if err != nil {
		t.Fatalf("NewStreamWriter: %v", err)
	}
	if err := w.WriteInt16E(-3252, endian.Big); err != nil {
		t.Fatalf("write big: %v", err)
	}
	if err := w.WriteInt16E(-3252, endian.Little); err != nil {
		t.Fatalf("write little: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	for _, impl := range []string{"stream", "mmap"} {
		impl := impl
		t.Run(impl, func(t *testing.T) {
			var r Reader
			if impl == "stream" {
				s, err := NewStream(path)
				if err != nil {
					t.Fatalf("NewStream: %v", err)
				}
				defer s.Close()
				r = s
			} else {
				m, err := NewMmap(path)
				if err != nil {
					t.Fatalf("NewMmap: %v", err)
				}
				defer m.Close()
				r = m
			}

			size, err := r.Size()
			if err != nil {
				t.Fatalf("Size: %v", err)
			}
			if size != 4 {
				t.Errorf("Size = %d, want 4", size)
			}

			big, err := r.ReadInt16E(endian.Big)
			if err != nil {
				t.Fatalf("ReadInt16E big: %v", err)
			}
			if big != -3252 {
				t.Errorf("big = %d, want -3252", big)
			}

			little, err := r.ReadInt16E(endian.Little)
			if err != nil {
				t.Fatalf("ReadInt16E little: %v", err)
			}
			if little != -3252 {
				t.Errorf("little = %d, want -3252", little)
			}
		})
	}
}

// TestReaderTokenization is the module's concrete scenario 2: ReadLine then
// ReadWord behavior on a small ASCII file.
func TestReaderTokenization(t *testing.T) {
	path := tempPath(t)
	if err := os.WriteFile(path, []byte("first line\nsecond line"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	for _, impl := range []string{"stream", "mmap"} {
		impl := impl
		t.Run(impl, func(t *testing.T) {
			newReader := func() Reader {
				if impl == "stream" {
					s, err := NewStream(path)
					if err != nil {
						t.Fatalf("NewStream: %v", err)
					}
					return s
				}
				m, err := NewMmap(path)
				if err != nil {
					t.Fatalf("NewMmap: %v", err)
				}
				return m
			}

			r := newReader()
			defer r.Close()

			line1, err := r.ReadLine()
			if err != nil {
				t.Fatalf("ReadLine 1: %v", err)
			}
			if line1 != "first line" {
				t.Errorf("line1 = %q, want %q", line1, "first line")
			}
			line2, err := r.ReadLine()
			if err != nil {
				t.Fatalf("ReadLine 2: %v", err)
			}
			if line2 != "second line" {
				t.Errorf("line2 = %q, want %q", line2, "second line")
			}

			r2 := newReader()
			defer r2.Close()

			want := []string{"first", "line", "second", "line"}
			for i, w := range want {
				word, ok, err := r2.ReadWord()
				if err != nil {
					t.Fatalf("ReadWord %d: %v", i, err)
				}
				if !ok {
					t.Fatalf("ReadWord %d: ok=false, want true", i)
				}
				if word != w {
					t.Errorf("ReadWord %d = %q, want %q", i, word, w)
				}
			}
			_, ok, err := r2.ReadWord()
			if err != nil {
				t.Fatalf("ReadWord 5: %v", err)
			}
			if ok {
				t.Error("ReadWord after last token: ok=true, want false (EOF)")
			}
		})
	}
}

func TestEndianSwapRoundTrip(t *testing.T) {
	if endian.Swap16(endian.Swap16(0xABCD)) != 0xABCD {
		t.Error("Swap16 not involutive")
	}
	if endian.Swap32(endian.Swap32(0xDEADBEEF)) != 0xDEADBEEF {
		t.Error("Swap32 not involutive")
	}
	if endian.Swap64(endian.Swap64(0x0123456789ABCDEF)) != 0x0123456789ABCDEF {
		t.Error("Swap64 not involutive")
	}
}
