// Package input opens plain or gzipped text inputs.
package input

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// Reader is a buffered reader over a plain or gzip-compressed file.
type Reader struct {
	*bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
}

// Open opens path for reading. Gzip input is detected by its magic bytes,
// so the file extension does not matter. Use "-" for stdin.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return FromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		file.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.Reader = bufio.NewReader(r.gzipReader)
	} else {
		r.Reader = bufio.NewReader(file)
	}

	return r, nil
}

// FromReader wraps an already open stream. Close is a no-op for it.
func FromReader(rd io.Reader) *Reader {
	return &Reader{Reader: bufio.NewReader(rd)}
}

// Close closes the gzip stream and the underlying file, if any.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
