// Package sniff infers the true media type of a file from its leading bytes,
// independent of the name it carries on disk. The signature table maps magic
// bytes to one of a fixed set of canonical extensions, so callers never trust
// a nominal extension that may be missing or wrong in exported data.
package sniff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Kind is the coarse media category of a file's content.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

// String returns a short label for logging.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// ErrUnsupportedType is returned when content matches no known signature.
var ErrUnsupportedType = errors.New("unsupported content type")

// headerLen is the number of leading bytes needed to match every signature
// in the table (the ISO media "ftyp" box check reaches offset 8).
const headerLen = 12

// signature maps a magic-byte prefix at a fixed offset to a canonical
// extension and kind.
type signature struct {
	offset int
	magic  []byte
	kind   Kind
	ext    string
}

var signatures = []signature{
	{0, []byte{0xFF, 0xD8, 0xFF}, KindImage, ".jpg"},
	{0, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, KindImage, ".png"},
	// ISO base media container (MP4, MOV): size box then "ftyp" brand.
	{4, []byte("ftyp"), KindVideo, ".mp4"},
}

// zipMagics are the ZIP local-file, empty-archive, and spanned-archive
// signatures. ZIP is detected separately from media because archives are
// routed to extraction, not copied or composited.
var zipMagics = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
	{0x50, 0x4B, 0x05, 0x06},
	{0x50, 0x4B, 0x07, 0x08},
}

// DetectBytes matches head against the signature table and returns the
// content kind and canonical extension (with leading dot). head should hold
// at least the first [headerLen] bytes of the file; shorter inputs only
// match signatures that fit.
func DetectBytes(head []byte) (Kind, string, error) {
	for _, s := range signatures {
		end := s.offset + len(s.magic)
		if len(head) < end {
			continue
		}
		if bytes.Equal(head[s.offset:end], s.magic) {
			return s.kind, s.ext, nil
		}
	}
	return KindUnknown, "", ErrUnsupportedType
}

// DetectFile reads the file header and returns its content kind and
// canonical extension.
func DetectFile(path string) (Kind, string, error) {
	head, err := readHeader(path)
	if err != nil {
		return KindUnknown, "", err
	}
	kind, ext, err := DetectBytes(head)
	if err != nil {
		return KindUnknown, "", fmt.Errorf("%w: %s", ErrUnsupportedType, path)
	}
	return kind, ext, nil
}

// opaqueMagics are compressed-container signatures SnapMerge recognizes but
// does not unpack (gzip, bzip2, xz, zstd, 7z, rar). Files matching these are
// copied through untouched rather than rejected as unsupported.
var opaqueMagics = [][]byte{
	{0x1F, 0x8B},
	{0x42, 0x5A, 0x68},
	{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00},
	{0x28, 0xB5, 0x2F, 0xFD},
	{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C},
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07},
}

// IsZipBytes reports whether head starts with a ZIP signature.
func IsZipBytes(head []byte) bool {
	for _, m := range zipMagics {
		if len(head) >= len(m) && bytes.Equal(head[:len(m)], m) {
			return true
		}
	}
	return false
}

// IsZipFile reports whether the file at path is a ZIP container. Read errors
// report false; the caller's later open will surface them.
func IsZipFile(path string) bool {
	head, err := readHeader(path)
	if err != nil {
		return false
	}
	return IsZipBytes(head)
}

// IsOpaqueArchive reports whether the file at path is a recognized non-ZIP
// compressed container.
func IsOpaqueArchive(path string) bool {
	head, err := readHeader(path)
	if err != nil {
		return false
	}
	for _, m := range opaqueMagics {
		if len(head) >= len(m) && bytes.Equal(head[:len(m)], m) {
			return true
		}
	}
	return false
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, headerLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}
