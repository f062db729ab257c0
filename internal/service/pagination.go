// Package service holds the business rules that sit between HTTP handlers and repositories.
package service

import (
	"context"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// PageSize is the number of posts on every paginated listing.
const PageSize = 10

// Page is one page of a listing plus the numbers a client needs to navigate it.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	NumPages    int   `json:"num_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParsePage reads a ?page= value. Anything that is not a positive integer means page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// numPages never returns less than 1 so an empty listing still has a first page.
func numPages(total int64, size int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

func newPage[T any](items []T, page int, total int64) *Page[T] {
	n := numPages(total, PageSize)
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		Page:        page,
		PageSize:    PageSize,
		Total:       total,
		NumPages:    n,
		HasNext:     page < n,
		HasPrevious: page > 1,
	}
}

// listPosts loads one page; a page past the end is clamped to the last page.
func listPosts(ctx context.Context, repo repository.PostRepository, filter repository.PostFilter, page int) (*Page[models.Post], error) {
	if page < 1 {
		page = 1
	}
	posts, total, err := repo.List(ctx, filter, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}
	if last := numPages(total, PageSize); page > last {
		page = last
		if posts, total, err = repo.List(ctx, filter, PageSize, (page-1)*PageSize); err != nil {
			return nil, err
		}
	}
	return newPage(posts, page, total), nil
}
