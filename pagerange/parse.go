package pagerange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrLeadingDash        = errors.New("expression starts with '-'")
	ErrAdjacentSeparators = errors.New("'-' and ',' cannot be adjacent")
	ErrMalformedRange     = errors.New("range has more than one '-'")
	ErrRangeStart         = errors.New("range start is not a number")
	ErrRangeEnd           = errors.New("range end is not a number")
	ErrReversedRange      = errors.New("range start is greater than its end")
	ErrPageNumber         = errors.New("page is not a number")
	ErrPageZero           = errors.New("page numbers start at 1")
	ErrBeyondLastPage     = errors.New("page exceeds the last page")
)

// SyntaxError reports an invalid page range expression. Token is the
// offending part of Input and Reason a message suitable for display.
type SyntaxError struct {
	Input  string
	Token  string
	Reason string
	Err    error
}

func (e *SyntaxError) Error() string {
	return e.Reason
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxError(input, token string, err error, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Input:  input,
		Token:  token,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

type token struct {
	text    string
	isRange bool
	start   string
	end     string
}

// tokenize splits input at commas and each part at its dash. It applies the
// whole-string format rules; the per-token rules are left to validate.
func tokenize(input string) ([]token, error) {
	if strings.HasPrefix(input, "-") {
		return nil, syntaxError(input, "-", ErrLeadingDash,
			"invalid format: %q cannot start with '-'", input)
	}
	for _, bad := range []string{"--", "-,", ",-"} {
		if strings.Contains(input, bad) {
			return nil, syntaxError(input, bad, ErrAdjacentSeparators,
				"invalid format: %q contains %q, '-' and ',' cannot be adjacent", input, bad)
		}
	}
	if input == "" {
		return nil, nil
	}

	parts := strings.Split(input, ",")
	tokens := make([]token, 0, len(parts))
	for _, part := range parts {
		t := token{text: part}
		if strings.Contains(part, "-") {
			bounds := strings.Split(part, "-")
			if len(bounds) != 2 {
				return nil, syntaxError(input, part, ErrMalformedRange,
					"invalid range: '%s' has more than one '-'", part)
			}
			t.isRange = true
			t.start, t.end = bounds[0], bounds[1]
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// Parse validates input against a document with lastPage pages and returns
// its selectors in input order. The empty string yields no selectors, which
// callers treat as "all pages". On error no selectors are returned.
func Parse(input string, lastPage int) ([]Selector, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	selectors := make([]Selector, 0, len(tokens))
	for _, t := range tokens {
		s, err := validate(input, t, lastPage)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, s)
	}
	return selectors, nil
}

func validate(input string, t token, lastPage int) (Selector, error) {
	if !t.isRange {
		if !isDigits(t.text) {
			return Selector{}, syntaxError(input, t.text, ErrPageNumber,
				"invalid page: '%s' is not a number", t.text)
		}
		page, ok := atoi(t.text)
		if !ok || page > lastPage {
			return Selector{}, syntaxError(input, t.text, ErrBeyondLastPage,
				"invalid page: page %s exceeds the last page (%d)", t.text, lastPage)
		}
		if page == 0 {
			return Selector{}, syntaxError(input, t.text, ErrPageZero,
				"invalid page: page numbers start at 1")
		}
		return Single(page), nil
	}

	if !isDigits(t.start) {
		return Selector{}, syntaxError(input, t.start, ErrRangeStart,
			"invalid range start: '%s' is not a number", t.start)
	}
	start, startOK := atoi(t.start)

	end, endOK := lastPage, true
	if t.end != "" {
		if !isDigits(t.end) {
			return Selector{}, syntaxError(input, t.end, ErrRangeEnd,
				"invalid range end: '%s' is not a number", t.end)
		}
		end, endOK = atoi(t.end)
	}

	if startOK && endOK && start > end {
		return Selector{}, syntaxError(input, t.text, ErrReversedRange,
			"invalid range: start page %d cannot be greater than end page %d", start, end)
	}
	if !startOK || start > lastPage {
		return Selector{}, syntaxError(input, t.start, ErrBeyondLastPage,
			"invalid range: page %s exceeds the last page (%d)", t.start, lastPage)
	}
	if !endOK || end > lastPage {
		return Selector{}, syntaxError(input, t.end, ErrBeyondLastPage,
			"invalid range: page %s exceeds the last page (%d)", t.end, lastPage)
	}
	if start == 0 {
		return Selector{}, syntaxError(input, t.text, ErrPageZero,
			"invalid range: page numbers start at 1")
	}
	return Range(start, end), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// atoi reports false when s does not fit into an int.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
