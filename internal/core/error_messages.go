package core

// error_messages.go maps errors to user-facing messages.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Error codes are grouped by category:
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Field count: A line has fewer than three fields
//	         Action: Every line needs unit number; floor area; room count
//	         Reasons: ReasonFieldCount
//
//	VAL002 - Invalid number: A numeric field could not be read
//	         Action: Use plain digits without units or thousands separators
//	         Reasons: ReasonInvalidNumber
//
//	VAL003 - Decimal separator: The floor area uses the other decimal separator
//	         Action: Use the configured DECIMAL_SEPARATOR throughout the file
//	         Reasons: ReasonWrongSeparator
//
//	VAL004 - Negative area: A floor area is below zero
//	         Action: Correct the floor area of the unit
//	         Reasons: ReasonNegativeArea
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Not found: The data file does not exist
//	          Patterns: "source not found"
//
//	FILE002 - Too large: The uploaded file exceeds the size limit
//	          Patterns: "file too large"
//
//	FILE003 - Read error: The data could not be read
//	          Patterns: "read lines"
//
// # Request Errors (UPL003-UPL005)
//
//	UPL003 - Busy: Every upload slot is in use
//	         Patterns: "too many concurrent uploads"
//
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// reasonMessages maps MalformedRecordError reasons to user messages.
var reasonMessages = map[string]UserMessage{
	ReasonFieldCount: {
		Message: "A line has too few fields",
		Action:  "Every line needs unit number; floor area; room count",
		Code:    "VAL001",
	},
	ReasonInvalidNumber: {
		Message: "Invalid number format detected",
		Action:  "Use plain digits without units or thousands separators",
		Code:    "VAL002",
	},
	ReasonWrongSeparator: {
		Message: "Floor area uses the wrong decimal separator",
		Action:  "Use the configured decimal separator throughout the file",
		Code:    "VAL003",
	},
	ReasonNegativeArea: {
		Message: "Floor area cannot be negative",
		Action:  "Correct the floor area of the unit",
		Code:    "VAL004",
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "source not found",
		msg: UserMessage{
			Message: "The data file was not found",
			Action:  "Check the DATA_FILE path",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Upload a smaller file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "The server is busy with other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "UPL005",
		},
	},
	{
		pattern: "read lines",
		msg: UserMessage{
			Message: "The data could not be read",
			Action:  "Check that the file is readable text",
			Code:    "FILE003",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Malformed records are mapped by reason, with the line number in the
// message; everything else by pattern.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var malformed *MalformedRecordError
	if errors.As(err, &malformed) {
		msg, ok := reasonMessages[malformed.Reason]
		if !ok {
			msg = reasonMessages[ReasonInvalidNumber]
		}
		if malformed.Line > 0 {
			msg.Message = fmt.Sprintf("%s (line %d)", msg.Message, malformed.Line)
		}
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
