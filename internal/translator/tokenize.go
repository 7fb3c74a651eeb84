package translator

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bnema/lootfilter/internal/models"
)

const commentMarker = "#"

// splitComment separates a line from its trailing comment. A marker inside
// double quotes is part of the value.
func splitComment(line string) (string, string, bool) {
	inQuote := false
	for i, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '#' && !inQuote:
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
		}
	}
	return strings.TrimSpace(line), "", false
}

// tokenize splits values on whitespace, keeping double-quoted strings
// (which may contain spaces) as single tokens without their quotes
func tokenize(s string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote, inToken := false, false

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			if inQuote {
				inQuote = false
				flush()
				continue
			}
			flush()
			inQuote, inToken = true, true
		case inQuote:
			cur.WriteRune(r)
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inQuote {
		return nil, failf("unterminated quoted string")
	}
	flush()
	return tokens, nil
}

// splitKeyword returns the leading keyword of a statement and the rest
func splitKeyword(line string) (string, string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// operators are ordered so two-character operators match first
var operators = []models.Operator{
	models.OpExact, models.OpLessEqual, models.OpGreaterEqual,
	models.OpEqual, models.OpLess, models.OpGreater,
}

const operatorChars = "=<>!"

// splitOperator strips a leading comparison operator from values. A run of
// operator characters that is not a legal operator is a line error.
func splitOperator(values string) (models.Operator, string, error) {
	values = strings.TrimSpace(values)
	run := 0
	for run < len(values) && strings.IndexByte(operatorChars, values[run]) >= 0 {
		run++
	}
	if run == 0 {
		return models.OpNone, values, nil
	}
	for _, op := range operators {
		if values[:run] == string(op) {
			return op, strings.TrimSpace(values[run:]), nil
		}
	}
	return models.OpNone, "", failf("unknown operator %q", values[:run])
}

func parseInt(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if errors.Is(err, strconv.ErrRange) {
		return 0, failf("number %q does not fit an integer", token)
	}
	if err != nil {
		return 0, failf("expected a number, got %q", token)
	}
	return n, nil
}
