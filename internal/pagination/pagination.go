package pagination

import (
	"micronet/internal/model"
)

// Posts slices an ordered result set into fixed-size pages of
// model.PageSize. Pages are 1-based. Out-of-range page numbers never
// fail: anything below 1 clamps to the first page and anything past the
// end clamps to the last page. An empty result set yields a single
// empty page.
func Posts(posts []model.Post, page int) model.PaginatedPosts {
	numPages := (len(posts) + model.PageSize - 1) / model.PageSize
	if numPages < 1 {
		numPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}

	start := (page - 1) * model.PageSize
	end := start + model.PageSize
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}

	out := model.PaginatedPosts{
		NumPages: numPages,
		Posts:    posts[start:end],
	}
	if out.Posts == nil {
		out.Posts = []model.Post{}
	}
	if page > 1 {
		prev := page - 1
		out.PreviousPage = &prev
	}
	if page < numPages {
		next := page + 1
		out.NextPage = &next
	}
	return out
}
