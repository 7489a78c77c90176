package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/model"
)

type seen struct {
	method, path, query, body, requestID, contentType string
}

// fakeProvider serves a tiny JSONPlaceholder subset and records requests.
type fakeProvider struct {
	mu   sync.Mutex
	reqs []seen
}

func (f *fakeProvider) last() seen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.reqs = append(f.reqs, seen{r.Method, r.URL.Path, r.URL.RawQuery, string(b), r.Header.Get(HeaderRequestID), r.Header.Get("Content-Type")})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/posts" && r.URL.Query().Get("userId") == "2":
		_, _ = io.WriteString(w, `[{"userId":2,"id":11,"title":"b","body":"bb"}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/posts":
		_, _ = io.WriteString(w, `[{"userId":1,"id":1,"title":"a","body":"aa"},{"userId":2,"id":11,"title":"b","body":"bb"}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/posts/1":
		_, _ = io.WriteString(w, `{"userId":1,"id":1,"title":"a","body":"aa"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/posts/1/comments":
		_, _ = io.WriteString(w, `[{"postId":1,"id":5,"name":"n","email":"e@x","body":"c"}]`)
	case r.Method == http.MethodPost && r.URL.Path == "/posts":
		w.WriteHeader(http.StatusCreated)
		var in map[string]any
		_ = json.Unmarshal(b, &in)
		in["id"] = 101
		_ = json.NewEncoder(w).Encode(in)
	case r.Method == http.MethodPut && r.URL.Path == "/posts/1":
		_, _ = w.Write(b)
	case r.Method == http.MethodDelete && r.URL.Path == "/posts/1":
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodGet && r.URL.Path == "/users":
		_, _ = io.WriteString(w, `[{"id":1,"name":"Leanne Graham","username":"Bret","email":"Sincere@april.biz"}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/users/1":
		_, _ = io.WriteString(w, `{"id":1,"name":"Leanne Graham","username":"Bret","company":{"name":"Romaguera-Crona"}}`)
	case r.URL.Path == "/posts/500":
		w.WriteHeader(http.StatusInternalServerError)
	case r.URL.Path == "/posts/garbage":
		_, _ = io.WriteString(w, `{"id":`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{}`)
	}
}

func newClient(t *testing.T) (*Client, *fakeProvider) {
	t.Helper()
	fp := &fakeProvider{}
	srv := httptest.NewServer(fp)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", WithLogger(zaptest.NewLogger(t)), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c, fp
}

func TestClient_PostsReadPaths(t *testing.T) {
	t.Parallel()
	c, fp := newClient(t)
	ctx := context.Background()

	posts, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Post{{ID: 1, UserID: 1, Title: "a", Body: "aa"}, {ID: 11, UserID: 2, Title: "b", Body: "bb"}}, posts)

	byUser, err := c.ListByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	require.Equal(t, "userId=2", fp.last().query)

	p, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "a", p.Title)

	last := fp.last()
	_, err = uuid.FromString(last.requestID)
	require.NoError(t, err, "request id must be a uuid")
}

func TestClient_Writes(t *testing.T) {
	t.Parallel()
	c, fp := newClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, model.PostDraft{Title: "t", Body: "b", UserID: 3})
	require.NoError(t, err)
	require.Equal(t, model.Post{ID: 101, UserID: 3, Title: "t", Body: "b"}, created)
	require.JSONEq(t, `{"userId":3,"title":"t","body":"b"}`, fp.last().body)
	require.Contains(t, fp.last().contentType, "application/json")

	updated, err := c.Update(ctx, 1, model.PostDraft{Title: "t2", Body: "b2", UserID: 1})
	require.NoError(t, err)
	require.Equal(t, model.Post{ID: 1, UserID: 1, Title: "t2", Body: "b2"}, updated)
	require.Equal(t, http.MethodPut, fp.last().method)

	require.NoError(t, c.Delete(ctx, 1))
	require.Equal(t, http.MethodDelete, fp.last().method)
}

func TestClient_UsersAndComments(t *testing.T) {
	t.Parallel()
	c, _ := newClient(t)
	ctx := context.Background()

	users, err := c.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Bret", users[0].Username)

	u, err := c.Users().Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Romaguera-Crona", u.Company.Name)

	comments, err := c.Comments().ListByPost(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []model.Comment{{ID: 5, PostID: 1, Name: "n", Email: "e@x", Body: "c"}}, comments)
}

func TestClient_FailuresAreFetchErrors(t *testing.T) {
	t.Parallel()
	c, _ := newClient(t)
	ctx := context.Background()

	_, err := c.Get(ctx, 404)
	require.ErrorIs(t, err, errs.ErrFetch)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = c.Get(ctx, 500)
	require.ErrorIs(t, err, errs.ErrFetch)
	require.NotErrorIs(t, err, errs.ErrNotFound)
	var fe *errs.FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusInternalServerError, fe.Status)

	_, err = c.Users().Get(ctx, 99)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.ErrorIs(t, c.Delete(ctx, 404), errs.ErrFetch)
}

func TestClient_DecodeErrorIsFetchError(t *testing.T) {
	t.Parallel()
	fp := &fakeProvider{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = "/posts/garbage"
		fp.ServeHTTP(w, r)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), 1)
	require.ErrorIs(t, err, errs.ErrFetch)
}

func TestClient_TransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	_, err = c.List(context.Background())
	require.ErrorIs(t, err, errs.ErrFetch)
	var fe *errs.FetchError
	require.True(t, errors.As(err, &fe))
	require.Zero(t, fe.Status)
}

func TestClient_ContextCanceled(t *testing.T) {
	t.Parallel()
	c, _ := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.List(ctx)
	require.ErrorIs(t, err, errs.ErrFetch)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()
	_, err := New("ftp://example.com")
	require.Error(t, err)
	_, err = New("::bad")
	require.Error(t, err)
}

func TestNew_KeepsBasePath(t *testing.T) {
	t.Parallel()
	gotPath := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath <- r.URL.Path
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/api/v1")
	require.NoError(t, err)
	posts, err := c.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, posts)
	require.Equal(t, "/api/v1/posts", <-gotPath)
}
