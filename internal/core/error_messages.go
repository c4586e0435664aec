package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Every FileError in a report carries one of these codes, and the HTTP API
// returns them in error responses.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
// Errors related to reading and parsing device exports:
//
//	FILE001 - File too large: File exceeds the configured size limit
//	          Action: Split the export or raise INGEST_MAX_FILE_SIZE
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid CSV: File could not be parsed as CSV
//	          Action: Re-export the file from the scale
//	          Patterns: "invalid csv"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Action: Save file as UTF-8 encoding
//	          Patterns: "encoding error"
//
//	FILE004 - No file: No file was provided
//	          Action: Attach at least one DATA or PROF export
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The file has no data rows
//	          Action: Check the export on the SD card
//	          Patterns: "empty file"
//
//	FILE006 - Not found: The file does not exist
//	          Action: Check the path and try again
//	          Patterns: "file not found"
//
//	FILE007 - Unreadable: The file could not be opened
//	          Action: Check file permissions
//	          Patterns: "file unreadable", "permission denied"
//
//	FILE008 - Unrecognized: File name is neither a DATA nor a PROF export
//	          Action: Keep the scale's file names or pass the type explicitly
//	          Patterns: "unrecognized input"
//
//	FILE009 - Too many files: More files than one request accepts
//	          Action: Send the exports in several requests
//	          Patterns: "too many files"
//
// # Directory Errors (DIR001-DIR099)
//
//	DIR001 - Directory not found: The export directory does not exist
//	         Action: Check DATA_DIR and SYSTEM_DIR
//	         Patterns: "directory not found"
//
// # Metric Errors (MET001-MET099)
//
//	MET001 - Unknown metric: The metric is not classifiable
//	         Action: Use one of the metrics listed by /api/metrics
//	         Patterns: "unknown metric"
//
//	MET002 - Invalid ranges: Range edges are malformed
//	         Action: Use ascending edges, one more than the number of labels
//	         Patterns: "invalid partition"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL002 - Invalid number: Invalid number format detected
//	         Action: Use a plain decimal such as 18.5
//	         Patterns: "invalid number"
//
// # Request Errors (UPL004-UPL005, RATE001-RATE002)
//
//	UPL004 - Request cancelled: Patterns: "context canceled"
//	UPL005 - Request timeout: Patterns: "context deadline exceeded"
//	RATE001 - Rate limited: Patterns: "rate limit"
//	RATE002 - Server busy: Patterns: "too many concurrent"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or check the logs
//
// # Pattern Matching
//
// Wrapped sentinel errors are matched first with errors.Is. Only errors
// that wrap no known sentinel fall back to the text patterns, which are
// matched case-insensitively using strings.Contains. The first matching
// pattern wins, so more specific patterns should be defined before
// general ones.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE009)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the size limit",
			Action:  "Split the export or raise INGEST_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the size limit",
			Action:  "Split the export or raise INGEST_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File could not be parsed as CSV",
			Action:  "Re-export the file from the scale",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was provided",
			Action:  "Attach at least one DATA or PROF export",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file has no data rows",
			Action:  "Check the export on the SD card",
			Code:    "FILE005",
		},
	},
	{
		pattern: "file not found",
		msg: UserMessage{
			Message: "The file does not exist",
			Action:  "Check the path and try again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "file unreadable",
		msg: UserMessage{
			Message: "The file could not be opened",
			Action:  "Check file permissions",
			Code:    "FILE007",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The file could not be opened",
			Action:  "Check file permissions",
			Code:    "FILE007",
		},
	},
	{
		pattern: "unrecognized input",
		msg: UserMessage{
			Message: "File is neither a DATA nor a PROF export",
			Action:  "Keep the scale's file names or pass the type explicitly",
			Code:    "FILE008",
		},
	},
	{
		pattern: "too many files",
		msg: UserMessage{
			Message: "More files than one request accepts",
			Action:  "Send the exports in several requests",
			Code:    "FILE009",
		},
	},

	// =========================================================================
	// Directory Errors (DIR001)
	// =========================================================================
	{
		pattern: "directory not found",
		msg: UserMessage{
			Message: "The export directory does not exist",
			Action:  "Check DATA_DIR and SYSTEM_DIR",
			Code:    "DIR001",
		},
	},

	// =========================================================================
	// Metric Errors (MET001-MET002)
	// =========================================================================
	{
		pattern: "unknown metric",
		msg: UserMessage{
			Message: "The metric is not classifiable",
			Action:  "Use one of the metrics listed by /api/metrics",
			Code:    "MET001",
		},
	},
	{
		pattern: "invalid partition",
		msg: UserMessage{
			Message: "Range edges are malformed",
			Action:  "Use ascending edges, one more than the number of labels",
			Code:    "MET002",
		},
	},

	// =========================================================================
	// Validation Errors (VAL002)
	// =========================================================================
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Use a plain decimal such as 18.5",
			Code:    "VAL002",
		},
	},

	// =========================================================================
	// Request Errors (UPL004-UPL005, RATE001-RATE002)
	// =========================================================================
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
			Action:  "Try fewer files or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many concurrent",
		msg: UserMessage{
			Message: "The server is busy with other analyses",
			Action:  "Please try again in a few seconds",
			Code:    "RATE002",
		},
	},
}

// sentinelCodes maps the package's sentinel errors to catalogue codes.
// Error text may contain file paths, so a wrapped sentinel outranks any
// pattern found in the text.
var sentinelCodes = []struct {
	err  error
	code string
}{
	{errFileTooLarge, "FILE001"},
	{ErrInvalidCSV, "FILE002"},
	{ErrFileNotFound, "FILE006"},
	{ErrFileUnreadable, "FILE007"},
	{ErrUnrecognizedInput, "FILE008"},
	{ErrDirectoryNotFound, "DIR001"},
	{ErrUnknownMetric, "MET001"},
	{ErrInvalidPartition, "MET002"},
	{ErrTooManyRuns, "RATE002"},
	{context.Canceled, "UPL004"},
	{context.DeadlineExceeded, "UPL005"},
}

// messageFor returns the catalogue entry for code.
func messageFor(code string) (UserMessage, bool) {
	for _, ep := range errorPatterns {
		if ep.msg.Code == code {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A wrapped sentinel decides the code. Otherwise it searches through known
// error patterns (case-insensitive) and returns the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("%w: DATA1.CSV", ErrFileNotFound))
//	// msg.Code == "FILE006"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			if msg, ok := messageFor(sc.code); ok {
				return msg
			}
		}
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

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}
