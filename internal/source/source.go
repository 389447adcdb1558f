// Package source provides the line sources the floor-area pipeline reads from.
//
// Every source decodes its input the same way:
//   - A leading UTF-8 BOM (common in files saved by Windows programs) is dropped
//   - Invalid UTF-8 sequences are replaced with U+FFFD
//   - Lines end at "\n"; a trailing "\r" is removed
//
// The whole input is read in one call; sources do not stream.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/floorarea/internal/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxLineLength is the longest line a source accepts.
const MaxLineLength = 1024 * 1024

// ErrTooLarge is returned by ReaderSource when the input exceeds its limit.
var ErrTooLarge = errors.New("file too large")

// FileSource reads lines from a file on disk.
type FileSource struct {
	path string
}

// NewFileSource returns a source for path. It fails with an error matching
// core.ErrSourceNotFound if path does not exist or is a directory.
func NewFileSource(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrSourceNotFound, path)
	}
	return &FileSource{path: path}, nil
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// ReadAllLines implements core.LineSource.
func (s *FileSource) ReadAllLines(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrSourceNotFound, s.path)
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	return readLines(ctx, f)
}

// ReaderSource reads lines from an already open stream, such as an
// HTTP request body. It can be read once.
type ReaderSource struct {
	reader   io.Reader
	maxBytes int64
}

// NewReaderSource returns a source over r. If maxBytes is positive, reading
// more than maxBytes fails with ErrTooLarge.
func NewReaderSource(r io.Reader, maxBytes int64) *ReaderSource {
	return &ReaderSource{
		reader:   r,
		maxBytes: maxBytes,
	}
}

// ReadAllLines implements core.LineSource.
func (s *ReaderSource) ReadAllLines(ctx context.Context) ([]string, error) {
	if s.maxBytes <= 0 {
		return readLines(ctx, s.reader)
	}

	limited := &limitedReader{r: s.reader, remaining: s.maxBytes}
	return readLines(ctx, limited)
}

// limitedReader is io.LimitReader that reports overrun instead of EOF.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrTooLarge
	}
	// Allow one extra byte so an input of exactly the limit is accepted.
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrTooLarge
	}
	return n, err
}

// readLines decodes r and splits it into lines.
func readLines(ctx context.Context, r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)

	var lines []string
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
