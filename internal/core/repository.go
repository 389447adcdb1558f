package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FileRecordRepository reads unit records from a LineSource.
// It holds no mutable state; each FetchAll is an independent pass.
type FileRecordRepository struct {
	source LineSource
	parser *RecordParser
}

// NewFileRecordRepository creates a repository over source using parser.
func NewFileRecordRepository(source LineSource, parser *RecordParser) *FileRecordRepository {
	return &FileRecordRepository{
		source: source,
		parser: parser,
	}
}

// FetchAll returns every record of the source in input order.
//
// The first line is a header and is discarded. Blank lines at the end of the
// input are dropped; a blank line anywhere else is malformed like any other
// line with too few fields. The first line that fails to parse aborts the call
// with a *MalformedRecordError carrying its 1-based line number; no partial
// result is returned. A source with no lines at all yields an empty slice.
func (r *FileRecordRepository) FetchAll(ctx context.Context) ([]UnitRecord, error) {
	lines, err := r.source.ReadAllLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}

	if len(lines) <= 1 {
		return []UnitRecord{}, nil
	}

	return r.convert(ctx, trimTrailingBlank(lines[1:]))
}

// trimTrailingBlank drops the run of whitespace-only lines at the end.
func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}

// convert parses data lines, which start at line 2 of the source.
func (r *FileRecordRepository) convert(ctx context.Context, dataLines []string) ([]UnitRecord, error) {
	records := make([]UnitRecord, 0, len(dataLines))

	for i, line := range dataLines {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("operation cancelled: %w", err)
		}

		record, err := r.parser.Parse(line)
		if err != nil {
			lineNum := i + 2 // header is line 1
			var malformed *MalformedRecordError
			if errors.As(err, &malformed) {
				return nil, malformed.AtLine(lineNum, line)
			}
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	return records, nil
}
