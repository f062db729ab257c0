package service

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	t.Parallel()
	tests := map[string]int{
		"":     1,
		"1":    1,
		"3":    3,
		" 2 ":  2,
		"0":    1,
		"-4":   1,
		"abc":  1,
		"2.5":  1,
		"last": 1,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePage(raw), "ParsePage(%q)", raw)
	}
}

// fakeListing serves total sequential posts with ids 1..total, newest (highest id) first.
func fakeListing(total int) *postRepoStub {
	repo := noopPostRepo()
	repo.listFn = func(_ context.Context, _ repository.PostFilter, limit, offset int) ([]models.Post, int64, error) {
		var out []models.Post
		for i := offset; i < offset+limit && i < total; i++ {
			out = append(out, models.Post{ID: uint(total - i)})
		}
		return out, int64(total), nil
	}
	return repo
}

func ids(posts []models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestListPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name     string
		total    int
		page     int
		wantPage int
		wantIDs  []uint
		wantNum  int
		hasNext  bool
		hasPrev  bool
	}{
		{name: "first page is full", total: 13, page: 1, wantPage: 1, wantIDs: []uint{13, 12, 11, 10, 9, 8, 7, 6, 5, 4}, wantNum: 2, hasNext: true},
		{name: "second page has the rest", total: 13, page: 2, wantPage: 2, wantIDs: []uint{3, 2, 1}, wantNum: 2, hasPrev: true},
		{name: "beyond last clamps", total: 13, page: 9, wantPage: 2, wantIDs: []uint{3, 2, 1}, wantNum: 2, hasPrev: true},
		{name: "empty listing has one page", total: 0, page: 4, wantPage: 1, wantIDs: []uint{}, wantNum: 1},
		{name: "exactly one page", total: 10, page: 1, wantPage: 1, wantIDs: []uint{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, wantNum: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := listPosts(ctx, fakeListing(tt.total), repository.PostFilter{}, tt.page)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.wantIDs, ids(p.Items)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantNum, p.NumPages)
			assert.Equal(t, PageSize, p.PageSize)
			assert.EqualValues(t, tt.total, p.Total)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrevious)
		})
	}
}
