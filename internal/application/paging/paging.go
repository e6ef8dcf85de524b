// Package paging turns page query parameters into row windows and the links
// that move between them.
package paging

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// maxLinks is how many numbered page links a pager shows at most.
const maxLinks = 5

// Params is the page a request asked for.
type Params struct {
	Page    int // 1-indexed
	PerPage int
}

// Parse extracts page and per_page from query values.
// POST: Page >= 1; PerPage is one of PerPageOptions
func Parse(q url.Values) Params {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !allowed(perPage) {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Info is a page clamped against the real row count.
type Info struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewInfo clamps p to the pages total rows can fill.
// PRE: total >= 0
// POST: 1 <= Page <= TotalPages; TotalPages >= 1
func NewInfo(p Params, total int) Info {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	return Info{
		Page:       min(max(p.Page, 1), totalPages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset is the number of rows before the current page.
func (i Info) Offset() int {
	return (i.Page - 1) * i.PerPage
}

// StartRow is the 1-indexed first row on the page, or 0 when there are none.
func (i Info) StartRow() int {
	if i.Total == 0 {
		return 0
	}
	return i.Offset() + 1
}

// EndRow is the 1-indexed last row on the page.
func (i Info) EndRow() int {
	return min(i.Offset()+i.PerPage, i.Total)
}

// Numbers returns at most five page numbers centred on the current page.
func (i Info) Numbers() []int {
	start := max(i.Page-maxLinks/2, 1)
	end := start + maxLinks - 1
	if end > i.TotalPages {
		end = i.TotalPages
		start = max(end-maxLinks+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}

// Link is one numbered entry of a pager.
type Link struct {
	Number  int
	Href    string
	Current bool
}

// Pager is Info plus the hrefs a template needs. Prev and Next are empty at
// the first and last page.
type Pager struct {
	Info
	Links []Link
	Prev  string
	Next  string
}

// NewPager builds the links for info relative to u. Other query values on u
// are kept.
func NewPager(u *url.URL, info Info) Pager {
	p := Pager{Info: info}
	if info.TotalPages <= 1 {
		return p
	}
	for _, n := range info.Numbers() {
		p.Links = append(p.Links, Link{Number: n, Href: Href(u, n), Current: n == info.Page})
	}
	if info.Page > 1 {
		p.Prev = Href(u, info.Page-1)
	}
	if info.Page < info.TotalPages {
		p.Next = Href(u, info.Page+1)
	}
	return p
}

// Href returns u's path and query with page set. Page 1 drops the parameter.
func Href(u *url.URL, page int) string {
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	out := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return out.String()
}

func allowed(perPage int) bool {
	for _, opt := range PerPageOptions {
		if perPage == opt {
			return true
		}
	}
	return false
}
