package core

import (
	"errors"
	"fmt"
	"strings"
)

// RecordParser turns one raw line into a UnitRecord.
// The decimal separator is fixed at construction; a RecordParser is safe for
// concurrent use.
type RecordParser struct {
	separator DecimalSeparator
}

// NewRecordParser creates a parser that accepts sep as the decimal separator
// of the floor-area field.
func NewRecordParser(sep DecimalSeparator) (*RecordParser, error) {
	if !sep.Valid() {
		return nil, fmt.Errorf("unsupported decimal separator %q: must be \".\" or \",\"", sep.String())
	}
	return &RecordParser{separator: sep}, nil
}

// Separator returns the decimal separator the parser accepts.
func (p *RecordParser) Separator() DecimalSeparator {
	return p.separator
}

// Parse splits line on FieldDelimiter, cleans the first three fields and
// converts them. Fields after the third are ignored.
//
// All errors are *MalformedRecordError with Line unset; the repository adds
// the position.
func (p *RecordParser) Parse(line string) (UnitRecord, error) {
	fields := strings.Split(line, FieldDelimiter)
	if len(fields) < minFields {
		return UnitRecord{}, &MalformedRecordError{
			Raw:    line,
			Value:  fmt.Sprintf("got %d, want at least %d", len(fields), minFields),
			Reason: ReasonFieldCount,
		}
	}

	unitNumber, err := p.parseIntField(line, fields, fieldUnitNumber)
	if err != nil {
		return UnitRecord{}, err
	}

	floorArea, err := p.parseAreaField(line, fields)
	if err != nil {
		return UnitRecord{}, err
	}

	roomCount, err := p.parseIntField(line, fields, fieldRoomCount)
	if err != nil {
		return UnitRecord{}, err
	}

	return UnitRecord{
		UnitNumber: unitNumber,
		FloorArea:  floorArea,
		RoomCount:  roomCount,
	}, nil
}

func (p *RecordParser) parseIntField(line string, fields []string, pos int) (int, error) {
	value := CleanField(fields[pos])
	n, err := ParseInt(value)
	if err != nil {
		return 0, &MalformedRecordError{
			Raw:    line,
			Field:  fieldNames[pos],
			Value:  value,
			Reason: ReasonInvalidNumber,
			Err:    err,
		}
	}
	return n, nil
}

func (p *RecordParser) parseAreaField(line string, fields []string) (float64, error) {
	value := CleanField(fields[fieldFloorArea])
	area, err := ParseDecimal(value, p.separator)
	if err != nil {
		reason := ReasonInvalidNumber
		if errors.Is(err, errWrongSeparator) {
			reason = ReasonWrongSeparator
		}
		return 0, &MalformedRecordError{
			Raw:    line,
			Field:  fieldNames[fieldFloorArea],
			Value:  value,
			Reason: reason,
			Err:    err,
		}
	}
	// The sign is checked on the text so that "-0" is rejected as well.
	if area < 0 || strings.HasPrefix(value, "-") {
		return 0, &MalformedRecordError{
			Raw:    line,
			Field:  fieldNames[fieldFloorArea],
			Value:  value,
			Reason: ReasonNegativeArea,
		}
	}
	return area, nil
}
