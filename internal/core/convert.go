package core

// convert.go provides the field cleaning and type conversion used by the
// record parser.
//
// Conversion is locale-independent and strict:
//   - Integers are optional sign + decimal digits ("3.2" is not an integer)
//   - Decimals use exactly one configured separator, "." or ","
//   - Thousands separators, exponents, NaN and Inf are rejected
//
// Each function is pure so it can be tested without a file or a repository.

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DecimalSeparator is the single character accepted between the integer and
// fractional part of a decimal field.
type DecimalSeparator rune

const (
	DecimalPoint DecimalSeparator = '.'
	DecimalComma DecimalSeparator = ','
)

var (
	errInvalidNumber  = errors.New("invalid number")
	errWrongSeparator = errors.New("wrong decimal separator")
)

// Pre-compiled decimal formats, one per supported separator.
var decimalFormats = map[DecimalSeparator]*regexp.Regexp{
	DecimalPoint: regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`),
	DecimalComma: regexp.MustCompile(`^[+-]?\d+(,\d+)?$`),
}

// ParseDecimalSeparator converts a configuration value to a DecimalSeparator.
func ParseDecimalSeparator(s string) (DecimalSeparator, error) {
	switch s {
	case ".":
		return DecimalPoint, nil
	case ",":
		return DecimalComma, nil
	default:
		return 0, fmt.Errorf("unsupported decimal separator %q: must be \".\" or \",\"", s)
	}
}

// Valid reports whether the separator is one of the supported characters.
func (d DecimalSeparator) Valid() bool {
	_, ok := decimalFormats[d]
	return ok
}

// String returns the separator as a one-character string.
func (d DecimalSeparator) String() string {
	return string(rune(d))
}

// other returns the separator that is not accepted under d.
func (d DecimalSeparator) other() DecimalSeparator {
	if d == DecimalComma {
		return DecimalPoint
	}
	return DecimalComma
}

// CleanField removes every double quote from a field and trims surrounding
// whitespace. CleanField(CleanField(s)) == CleanField(s).
func CleanField(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// ParseInt converts a cleaned field to an int.
func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidNumber, err)
	}
	return n, nil
}

// ParseDecimal converts a cleaned field to a float64 using sep as the only
// accepted decimal separator. A value written with the other separator
// returns an error matching errWrongSeparator rather than being reinterpreted.
func ParseDecimal(s string, sep DecimalSeparator) (float64, error) {
	format, ok := decimalFormats[sep]
	if !ok {
		return 0, fmt.Errorf("unsupported decimal separator %q", sep.String())
	}

	if !format.MatchString(s) {
		if decimalFormats[sep.other()].MatchString(s) {
			return 0, fmt.Errorf("%w: %q uses %q, expected %q", errWrongSeparator, s, sep.other().String(), sep.String())
		}
		return 0, fmt.Errorf("%w: %q", errInvalidNumber, s)
	}

	if sep != DecimalPoint {
		s = strings.Replace(s, sep.String(), ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidNumber, err)
	}
	return f, nil
}
