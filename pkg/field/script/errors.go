package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EvalError is a parse or runtime error in field source, with the line
// it was reported on when zygomys provides one.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("script: line %d: %s", e.Line, e.Message)
	}
	return "script: " + e.Message
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into an EvalError, pulling
// out the line number when the message carries one.
func parseZygomysError(err error) *EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return &EvalError{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}
		}
	}

	return &EvalError{Message: strings.TrimSpace(msg)}
}
