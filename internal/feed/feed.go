// Package feed derives the displayed post list from the provider's posts and the
// user-entered search, author filter and sort mode.
package feed

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/model"
)

// UnknownAuthor is shown when a post's userId does not resolve to a known user.
const UnknownAuthor = "Unknown User"

// SortMode selects the ordering applied after filtering.
type SortMode string

const (
	SortRecent SortMode = "recent" // id descending
	SortOldest SortMode = "oldest" // id ascending
	SortTitle  SortMode = "title"  // locale-aware title ascending
)

// ParseSortMode accepts the three known modes; empty means recent.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortRecent, nil
	case SortRecent, SortOldest, SortTitle:
		return m, nil
	}
	return "", fmt.Errorf("sort mode %q: %w", s, errs.ErrValidation)
}

// AuthorFilter is either "all" or a single user id. The zero value means all.
type AuthorFilter struct {
	id  int64
	set bool
}

// AllAuthors keeps every post.
func AllAuthors() AuthorFilter { return AuthorFilter{} }

// ByAuthor keeps posts whose userId equals id.
func ByAuthor(id int64) AuthorFilter { return AuthorFilter{id: id, set: true} }

// ParseAuthorFilter parses "all" (or empty) and positive decimal user ids.
func ParseAuthorFilter(s string) (AuthorFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllAuthors(), nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return AuthorFilter{}, fmt.Errorf("author %q: %w", s, errs.ErrValidation)
	}
	return ByAuthor(id), nil
}

// ID returns the filtered user id and false for "all".
func (f AuthorFilter) ID() (int64, bool) { return f.id, f.set }

func (f AuthorFilter) String() string {
	if !f.set {
		return "all"
	}
	return strconv.FormatInt(f.id, 10)
}

// Query holds the three independent pipeline parameters.
type Query struct {
	Search string
	Author AuthorFilter
	Sort   SortMode
}

// Apply filters and sorts posts into a fresh slice. The input is never modified.
func Apply(posts []model.Post, q Query) []model.Post {
	needle := strings.ToLower(q.Search)
	authorID, byAuthor := q.Author.ID()

	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Body), needle) {
			continue
		}
		if byAuthor && p.UserID != authorID {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortRecent:
		slices.SortStableFunc(out, func(a, b model.Post) int { return cmp.Compare(b.ID, a.ID) })
	case SortOldest:
		slices.SortStableFunc(out, func(a, b model.Post) int { return cmp.Compare(a.ID, b.ID) })
	case SortTitle:
		// collate.Collator keeps internal buffers; one per call.
		c := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b model.Post) int { return c.CompareString(a.Title, b.Title) })
	}
	return out
}

// AuthorName resolves a display name, degrading to UnknownAuthor.
func AuthorName(users []model.User, id int64) string {
	for _, u := range users {
		if u.ID == id {
			return u.Name
		}
	}
	return UnknownAuthor
}

// Remove returns posts without the one identified by id.
func Remove(posts []model.Post, id int64) []model.Post {
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
