// Package pagerange parses page selection expressions such as "1-3,7,10-".
//
// An expression is a comma separated list of tokens. A token is either a
// page number or a range "start-end"; a range with an empty end runs to the
// last page of the document. All page numbers are 1-indexed and inclusive.
package pagerange

import (
	"strconv"
	"strings"
)

type Kind int

const (
	SinglePage Kind = iota
	PageRange
)

// Selector is a validated single page or page range.
// For a single page Start and End are equal.
type Selector struct {
	Kind  Kind
	Start int
	End   int
}

func Single(page int) Selector {
	return Selector{Kind: SinglePage, Start: page, End: page}
}

func Range(start, end int) Selector {
	return Selector{Kind: PageRange, Start: start, End: end}
}

// Len returns the number of pages the selector covers.
func (s Selector) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start + 1
}

// String returns the canonical form of s, which Parse accepts again.
func (s Selector) String() string {
	if s.Kind == SinglePage {
		return strconv.Itoa(s.Start)
	}
	return strconv.Itoa(s.Start) + "-" + strconv.Itoa(s.End)
}

// Format joins selectors into a canonical expression.
func Format(selectors []Selector) string {
	parts := make([]string, len(selectors))
	for i, s := range selectors {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// Pages expands selectors into 1-indexed page numbers in selector order.
// Duplicates are kept. Pages beyond lastPage are dropped.
func Pages(selectors []Selector, lastPage int) []int {
	var pages []int
	for _, s := range selectors {
		for p := s.Start; p <= s.End && p <= lastPage; p++ {
			if p >= 1 {
				pages = append(pages, p)
			}
		}
	}
	return pages
}
