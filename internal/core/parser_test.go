package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T, sep DecimalSeparator) *RecordParser {
	t.Helper()
	p, err := NewRecordParser(sep)
	require.NoError(t, err)
	return p
}

func TestNewRecordParser_RejectsUnsupportedSeparator(t *testing.T) {
	_, err := NewRecordParser(DecimalSeparator(';'))
	require.Error(t, err)

	p, err := NewRecordParser(DecimalComma)
	require.NoError(t, err)
	assert.Equal(t, DecimalComma, p.Separator())
}

func TestRecordParser_Parse_Valid(t *testing.T) {
	tests := []struct {
		name string
		line string
		want UnitRecord
	}{
		{
			name: "plain",
			line: "101;755;3",
			want: UnitRecord{UnitNumber: 101, FloorArea: 755, RoomCount: 3},
		},
		{
			name: "quoted and padded",
			line: `"101"; "755"; "3"`,
			want: UnitRecord{UnitNumber: 101, FloorArea: 755, RoomCount: 3},
		},
		{
			name: "decimal floor area",
			line: "102;60.5;2",
			want: UnitRecord{UnitNumber: 102, FloorArea: 60.5, RoomCount: 2},
		},
		{
			name: "extra fields ignored",
			line: `103;45;1;"ground floor";x`,
			want: UnitRecord{UnitNumber: 103, FloorArea: 45, RoomCount: 1},
		},
		{
			name: "zero area",
			line: "104;0;0",
			want: UnitRecord{UnitNumber: 104, FloorArea: 0, RoomCount: 0},
		},
		{
			name: "explicit plus sign",
			line: "105;+12.5;1",
			want: UnitRecord{UnitNumber: 105, FloorArea: 12.5, RoomCount: 1},
		},
	}

	p := newParser(t, DecimalPoint)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordParser_Parse_CleaningIsEquivalent(t *testing.T) {
	p := newParser(t, DecimalPoint)

	padded, err := p.Parse(`  "101"  ;  "755"  ;  "3"  `)
	require.NoError(t, err)
	plain, err := p.Parse("101;755;3")
	require.NoError(t, err)

	assert.Equal(t, plain, padded)
}

func TestRecordParser_Parse_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantReason string
		wantField  string
	}{
		{
			name:       "two fields",
			line:       `"101"; "755"`,
			wantReason: ReasonFieldCount,
		},
		{
			name:       "single field",
			line:       "101",
			wantReason: ReasonFieldCount,
		},
		{
			name:       "empty line",
			line:       "",
			wantReason: ReasonFieldCount,
		},
		{
			name:       "non-numeric unit number",
			line:       `"10x1"; "755"; "3"`,
			wantReason: ReasonInvalidNumber,
			wantField:  "unit number",
		},
		{
			name:       "non-numeric unit number and comma area",
			line:       `"10x1"; "755,0"; "3"`,
			wantReason: ReasonInvalidNumber,
			wantField:  "unit number",
		},
		{
			name:       "comma area under point convention",
			line:       `"101"; "755,0"; "3"`,
			wantReason: ReasonWrongSeparator,
			wantField:  "floor area",
		},
		{
			name:       "text area",
			line:       "101;large;3",
			wantReason: ReasonInvalidNumber,
			wantField:  "floor area",
		},
		{
			name:       "empty area",
			line:       "101;;3",
			wantReason: ReasonInvalidNumber,
			wantField:  "floor area",
		},
		{
			name:       "negative area",
			line:       "101;-5;3",
			wantReason: ReasonNegativeArea,
			wantField:  "floor area",
		},
		{
			name:       "negative zero area",
			line:       "101;-0;3",
			wantReason: ReasonNegativeArea,
			wantField:  "floor area",
		},
		{
			name:       "negative zero decimal area",
			line:       `"101"; "-0.0"; "3"`,
			wantReason: ReasonNegativeArea,
			wantField:  "floor area",
		},
		{
			name:       "fractional room count",
			line:       `"101"; "755"; "3.2"`,
			wantReason: ReasonInvalidNumber,
			wantField:  "room count",
		},
		{
			name:       "all delimiters",
			line:       ";;",
			wantReason: ReasonInvalidNumber,
			wantField:  "unit number",
		},
	}

	p := newParser(t, DecimalPoint)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.line)
			require.Error(t, err)
			assert.Equal(t, UnitRecord{}, got)
			assert.True(t, errors.Is(err, ErrMalformedRecord))

			var malformed *MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.wantReason, malformed.Reason)
			assert.Equal(t, tt.wantField, malformed.Field)
			assert.Equal(t, tt.line, malformed.Raw)
			assert.Zero(t, malformed.Line)
		})
	}
}

func TestRecordParser_Parse_CommaConvention(t *testing.T) {
	p := newParser(t, DecimalComma)

	rec, err := p.Parse(`"101"; "75,5"; "3"`)
	require.NoError(t, err)
	assert.Equal(t, 75.5, rec.FloorArea)

	_, err = p.Parse(`"101"; "75.5"; "3"`)
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, ReasonWrongSeparator, malformed.Reason)
}

func TestMalformedRecordError_Error(t *testing.T) {
	base := &MalformedRecordError{
		Raw:    "10x1;755;3",
		Field:  "unit number",
		Value:  "10x1",
		Reason: ReasonInvalidNumber,
	}
	assert.Equal(t, `malformed record: invalid number: unit number "10x1"`, base.Error())

	annotated := base.AtLine(2, "10x1;755;3")
	assert.Equal(t, `line 2: malformed record: invalid number: unit number "10x1" (input: "10x1;755;3")`, annotated.Error())
	assert.Zero(t, base.Line, "AtLine must not modify the receiver")

	count := &MalformedRecordError{Reason: ReasonFieldCount, Value: "got 2, want at least 3"}
	assert.Equal(t, "malformed record: too few fields: got 2, want at least 3", count.Error())
}

func TestMalformedRecordError_UnwrapsCause(t *testing.T) {
	p := newParser(t, DecimalPoint)
	_, err := p.Parse("101;7,5;3")

	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.ErrorIs(t, err, errWrongSeparator)
}
