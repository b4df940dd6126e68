// pkg/archive/decoder.go
package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Format identifies the compression wrapped around a tar archive.
type Format int

const (
	FormatNone Format = iota
	FormatGzip
	FormatZstd
	FormatXZ
)

// String returns the human-readable name of a format.
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatGzip:
		return "gzip"
	case FormatZstd:
		return "zstd"
	case FormatXZ:
		return "xz"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// Compression magic numbers. The same logical database may be served
// compressed or not depending on mirror configuration, so the format
// is sniffed from content, never trusted from a file extension or a
// Content-Type header.
var (
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicGzip = []byte{0x1f, 0x8b}
	magicXZ   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// sniffLen covers the longest magic above.
const sniffLen = 6

// DetectFormat classifies a file header prefix. Anything unrecognized
// is assumed to be an uncompressed tar.
func DetectFormat(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, magicZstd):
		return FormatZstd
	case bytes.HasPrefix(header, magicGzip):
		return FormatGzip
	case bytes.HasPrefix(header, magicXZ):
		return FormatXZ
	default:
		return FormatNone
	}
}

// Reader walks the regular-file entries of an optionally compressed
// tar archive.
type Reader struct {
	tr     *tar.Reader
	format Format
	gz     *gzip.Reader
	zr     *zstd.Decoder
}

// NewReader sniffs the compression of r from its leading magic bytes,
// rewinds, and wraps the decompressed stream in a tar reader.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding after header sniff: %w", err)
	}

	ar := &Reader{format: DetectFormat(header[:n])}
	switch ar.format {
	case FormatZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("initializing zstd decoder: %w", err)
		}
		ar.zr = zr
		ar.tr = tar.NewReader(zr)
	case FormatGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("initializing gzip decoder: %w", err)
		}
		ar.gz = gz
		ar.tr = tar.NewReader(gz)
	case FormatXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("initializing xz decoder: %w", err)
		}
		ar.tr = tar.NewReader(xr)
	default:
		// No recognized compression magic, assume plain tar.
		ar.tr = tar.NewReader(bufio.NewReader(r))
	}
	return ar, nil
}

// Format returns the compression detected by NewReader.
func (r *Reader) Format() Format { return r.format }

// Next advances to the next regular-file entry, skipping directories,
// symlinks and other non-file members. Returns io.EOF at the end of
// the archive.
func (r *Reader) Next() (*tar.Header, error) {
	for {
		hdr, err := r.tr.Next()
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg {
			return hdr, nil
		}
	}
}

// Read reads from the entry returned by the last call to Next.
func (r *Reader) Read(p []byte) (int, error) {
	return r.tr.Read(p)
}

// Close releases decompressor state. The underlying byte source is the
// caller's to close.
func (r *Reader) Close() error {
	if r.zr != nil {
		r.zr.Close()
	}
	if r.gz != nil {
		return r.gz.Close()
	}
	return nil
}
