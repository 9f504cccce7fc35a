package merge

import "mingle/pagerange"

// Span is an inclusive range of 0-indexed pages.
type Span struct {
	From int
	To   int
}

func (s Span) Len() int {
	return s.To - s.From + 1
}

// pageNumbers returns the 1-indexed page numbers covered by s.
func (s Span) pageNumbers() []int {
	pages := make([]int, 0, s.Len())
	for i := s.From; i <= s.To; i++ {
		pages = append(pages, i+1)
	}
	return pages
}

// Plan converts selectors for a document with lastPage pages into spans, in
// selector order. No selectors means every page. Ends beyond the document
// are clamped to its last page; single pages outside it, and ranges left
// empty by clamping, are dropped.
func Plan(selectors []pagerange.Selector, lastPage int) []Span {
	if lastPage <= 0 {
		return nil
	}
	if len(selectors) == 0 {
		return []Span{{From: 0, To: lastPage - 1}}
	}

	spans := make([]Span, 0, len(selectors))
	for _, sel := range selectors {
		switch sel.Kind {
		case pagerange.SinglePage:
			page := sel.Start - 1
			if page >= 0 && page < lastPage {
				spans = append(spans, Span{From: page, To: page})
			}
		case pagerange.PageRange:
			from := max(sel.Start-1, 0)
			to := min(sel.End, lastPage) - 1
			if from <= to {
				spans = append(spans, Span{From: from, To: to})
			}
		}
	}
	return spans
}
