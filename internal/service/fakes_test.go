package service

import (
	"context"
	"sync"

	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/model"
	"github.com/and161185/blogfront/internal/repository"
)

type fakePosts struct {
	mu sync.Mutex

	all     []model.Post
	listErr error
	getErr  error

	listCalls int

	created   []model.PostDraft
	createErr error
	updated   map[int64]model.PostDraft
	deleted   []int64
	deleteErr error
}

var _ repository.PostRepository = (*fakePosts)(nil)

func (f *fakePosts) List(context.Context) ([]model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	// the provider never really deletes: always the full list
	return append([]model.Post(nil), f.all...), nil
}

func (f *fakePosts) ListByUser(_ context.Context, userID int64) ([]model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Post
	for _, p := range f.all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePosts) Get(_ context.Context, id int64) (model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return model.Post{}, f.getErr
	}
	for _, p := range f.all {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Post{}, &errs.FetchError{Op: "get post", Status: 404}
}

func (f *fakePosts) Create(_ context.Context, d model.PostDraft) (model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return model.Post{}, f.createErr
	}
	f.created = append(f.created, d)
	return model.Post{ID: 101, UserID: d.UserID, Title: d.Title, Body: d.Body}, nil
}

func (f *fakePosts) Update(_ context.Context, id int64, d model.PostDraft) (model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[int64]model.PostDraft{}
	}
	f.updated[id] = d
	return model.Post{ID: id, UserID: d.UserID, Title: d.Title, Body: d.Body}, nil
}

func (f *fakePosts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUsers struct {
	all []model.User
	err error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) List(context.Context) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.all, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	for _, u := range f.all {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, &errs.FetchError{Op: "get user", Status: 404}
}

type fakeComments struct {
	byPost map[int64][]model.Comment
	err    error
}

var _ repository.CommentRepository = (*fakeComments)(nil)

func (f *fakeComments) ListByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byPost[postID], nil
}

type fakeSessions struct {
	logins  []string
	signups []string
	logouts int
	err     error
}

var _ Sessions = (*fakeSessions)(nil)

func (f *fakeSessions) Login(_ context.Context, email, _ string) (model.Identity, error) {
	f.logins = append(f.logins, email)
	return model.Identity{ID: 1, Name: "User", Email: email}, f.err
}

func (f *fakeSessions) Signup(_ context.Context, name, email, _ string) (model.Identity, error) {
	f.signups = append(f.signups, name)
	return model.Identity{ID: 99, Name: name, Email: email}, f.err
}

func (f *fakeSessions) Logout(context.Context) error {
	f.logouts++
	return f.err
}
