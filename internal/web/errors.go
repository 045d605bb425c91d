package web

// errors.go maps technical errors to user-facing messages with support
// codes and writes them as JSON.
//
// Codes are grouped by category:
//
//	CSV001 - Duplicate field: two header columns resolve to the same key
//	CSV002 - No header row: the payload is empty
//	CSV003 - Unknown encoding: the charset name is not supported
//	CSV004 - Decode error: bytes are invalid for the declared charset
//	CSV005 - Bad delimiter: the delimiter is not a usable single character
//	CSV006 - Bad quoting: unbalanced or stray double quotes
//
//	REQ001 - Payload too large: the body exceeds PARSE_MAX_BODY_SIZE
//	REQ002 - Unsupported media type: no parser for the Content-Type
//	REQ003 - Busy: every parse slot is taken
//	REQ004 - Request timeout
//	REQ005 - Request cancelled
//
//	ERR000 - Unknown error: check the server log for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/csvnest/internal/csvparse"
	"github.com/JonMunkholm/csvnest/internal/logging"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Request errors
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Payload exceeds the maximum size",
			Action:  "Split the file into smaller parts",
			Code:    "REQ001",
		},
	},
	{
		pattern: "unsupported media type",
		msg: UserMessage{
			Message: "Content-Type is not supported",
			Action:  "Send the payload as text/csv",
			Code:    "REQ002",
		},
	},
	{
		pattern: "too many concurrent parses",
		msg: UserMessage{
			Message: "Server is busy with other parses",
			Action:  "Please wait a moment and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller payload or check your connection",
			Code:    "REQ004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ005",
		},
	},

	// Parse errors
	{
		pattern: "duplicate field name",
		msg: UserMessage{
			Message: "Two columns resolve to the same field",
			Action:  "Rename the conflicting header columns",
			Code:    "CSV001",
		},
	},
	{
		pattern: "no header row",
		msg: UserMessage{
			Message: "The payload is empty",
			Action:  "Send CSV whose first row holds the column names",
			Code:    "CSV002",
		},
	},
	{
		pattern: "unknown encoding",
		msg: UserMessage{
			Message: "The character set is not supported",
			Action:  "Use utf-8 or another standard charset name",
			Code:    "CSV003",
		},
	},
	{
		pattern: "codec can't decode",
		msg: UserMessage{
			Message: "The payload contains bytes invalid for its character set",
			Action:  "Declare the correct charset or save the file as UTF-8",
			Code:    "CSV004",
		},
	},
	{
		pattern: "delimiter",
		msg: UserMessage{
			Message: "The delimiter cannot be used",
			Action:  "Pass one character other than a double quote or line break",
			Code:    "CSV005",
		},
	},
	{
		pattern: "quoted-field",
		msg: UserMessage{
			Message: "A quoted field is malformed",
			Action:  "Check the file for unbalanced double quotes",
			Code:    "CSV006",
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
// It returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// respondError logs the technical error with request context and writes
// a JSON error body. Parse errors are shown verbatim in the error field;
// anything else is replaced by the mapped message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := MapError(err)

	logging.FromContext(r.Context()).Warn("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	detail := userMsg.Message
	var parseErr *csvparse.ParseError
	if errors.As(err, &parseErr) {
		detail = parseErr.Error()
	}

	writeJSON(w, statusCode, ErrorResponse{
		Error:   detail,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
