package reader

import "math"

// Progress is a reader's position within a document. HighestPageReached is
// the only value that gets persisted and it never decreases.
type Progress struct {
	CurrentPage        int `json:"currentPage"`
	HighestPageReached int `json:"highestPageReached"`
	TotalPages         int `json:"totalPages"`
}

// NewProgress starts a reader on the first page
func NewProgress(totalPages int) Progress {
	return Progress{CurrentPage: 1, HighestPageReached: 1, TotalPages: totalPages}
}

// Resume restores a persisted watermark and places the reader on it
func Resume(highest, totalPages int) Progress {
	if totalPages <= 0 {
		return NewProgress(totalPages)
	}
	highest = clamp(highest, 1, totalPages)
	return Progress{CurrentPage: highest, HighestPageReached: highest, TotalPages: totalPages}
}

// Advance moves to requested, clamped to [1, TotalPages], and raises the
// watermark if the new page is further than any page reached so far.
func Advance(p Progress, requested int) Progress {
	if p.TotalPages <= 0 {
		p.CurrentPage = 1
		return p
	}

	p.CurrentPage = clamp(requested, 1, p.TotalPages)
	if p.CurrentPage > p.HighestPageReached {
		p.HighestPageReached = p.CurrentPage
	}
	return p
}

// Percent returns round(100 * highest / total), or 0 when total is not positive
func Percent(highest, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(highest) / float64(total)))
	return clamp(pct, 0, 100)
}

// Percent returns the completion percentage of the watermark
func (p Progress) Percent() int {
	return Percent(p.HighestPageReached, p.TotalPages)
}
