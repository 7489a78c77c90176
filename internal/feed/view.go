package feed

import "github.com/and161185/blogfront/internal/model"

// View keeps a source list and its derived display list in step.
// Every setter recomputes the display list from scratch.
type View struct {
	source []model.Post
	query  Query
	out    []model.Post
}

// NewView builds a view with the default query (all authors, recent first).
func NewView(posts []model.Post) *View {
	v := &View{query: Query{Sort: SortRecent}}
	v.SetPosts(posts)
	return v
}

// SetPosts replaces the source list, e.g. when a late fetch resolves.
func (v *View) SetPosts(posts []model.Post) {
	v.source = append([]model.Post(nil), posts...)
	v.recompute()
}

// SetQuery replaces the parameters.
func (v *View) SetQuery(q Query) {
	v.query = q
	v.recompute()
}

// Remove drops a deleted post from the source before recomputing.
func (v *View) Remove(id int64) {
	v.source = Remove(v.source, id)
	v.recompute()
}

// Posts returns the current display list. Callers must not modify it.
func (v *View) Posts() []model.Post { return v.out }

// Len reports the size of the source list.
func (v *View) Len() int { return len(v.source) }

func (v *View) recompute() { v.out = Apply(v.source, v.query) }
