package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/feed"
	"github.com/and161185/blogfront/internal/guard"
	"github.com/and161185/blogfront/internal/model"
	"github.com/and161185/blogfront/internal/query"
	"github.com/and161185/blogfront/internal/repository"
)

// Cache keys.
const (
	keyPosts = "posts"
	keyUsers = "users"
)

func keyPost(id int64) string      { return fmt.Sprintf("post/%d", id) }
func keyUser(id int64) string      { return fmt.Sprintf("user/%d", id) }
func keyComments(id int64) string  { return fmt.Sprintf("comments/%d", id) }
func keyUserPosts(id int64) string { return fmt.Sprintf("posts?userId=%d", id) }

// defaultAuthorID is used when neither the draft nor the session names an author.
const defaultAuthorID = 1

// HomePage is the home listing after the pipeline ran.
type HomePage struct {
	Posts   []model.Post
	Total   int              // size of the unfiltered source list
	Authors map[int64]string // display names for Posts; placeholders when users failed
	Users   []model.User     // author filter choices; empty when UsersErr != nil
	// UsersErr is set when the user list failed; names then degrade to placeholders.
	UsersErr error
}

// PostPage is a single post with its author and comments.
type PostPage struct {
	Post        model.Post
	Author      *model.User
	AuthorName  string
	Comments    []model.Comment
	AuthorErr   error
	CommentsErr error
}

// ProfilePage is a user with their posts.
type ProfilePage struct {
	User     model.User
	Posts    []model.Post
	PostsErr error
}

// BlogService defines the page loads and post writes.
type BlogService interface {
	// Home runs the feed pipeline over all posts.
	Home(ctx context.Context, q feed.Query) (HomePage, error)
	// PostDetail loads a post with its author and comments.
	PostDetail(ctx context.Context, id int64) (PostPage, error)
	// UserProfile loads a user with their posts.
	UserProfile(ctx context.Context, id int64) (ProfilePage, error)
	Users(ctx context.Context) ([]model.User, error)
	// CreatePost, UpdatePost and DeletePost need an identity in ctx.
	CreatePost(ctx context.Context, d model.PostDraft) (model.Post, error)
	UpdatePost(ctx context.Context, id int64, d model.PostDraft) (model.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// BlogServiceImpl serves the pages. Reads go through the query cache; writes
// require an identity placed in ctx by the guard.
type BlogServiceImpl struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	cache    *query.Cache
	log      *zap.Logger

	mu   sync.Mutex
	home *feed.View // last home listing; deletes are applied to it directly
}

var _ BlogService = (*BlogServiceImpl)(nil)

// NewBlogService constructs BlogService with required dependencies.
func NewBlogService(posts repository.PostRepository, users repository.UserRepository, comments repository.CommentRepository, cache *query.Cache, log *zap.Logger) *BlogServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &BlogServiceImpl{posts: posts, users: users, comments: comments, cache: cache, log: log, home: feed.NewView(nil)}
}

func (s *BlogServiceImpl) listPosts(ctx context.Context) ([]model.Post, error) {
	return query.Fetch(ctx, s.cache, keyPosts, s.posts.List)
}

func (s *BlogServiceImpl) listUsers(ctx context.Context) ([]model.User, error) {
	return query.Fetch(ctx, s.cache, keyUsers, s.users.List)
}

// Home loads posts and users in parallel and runs the pipeline.
// Only a posts failure fails the page.
func (s *BlogServiceImpl) Home(ctx context.Context, q feed.Query) (HomePage, error) {
	var (
		g     errgroup.Group
		posts []model.Post
		users []model.User
		uErr  error
	)
	g.Go(func() error {
		var err error
		posts, err = s.listPosts(ctx)
		return err
	})
	g.Go(func() error {
		users, uErr = s.listUsers(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("home: posts unavailable", zap.Error(err))
		return HomePage{}, fmt.Errorf("load posts: %w", err)
	}
	if uErr != nil {
		s.log.Warn("home: users unavailable, using placeholders", zap.Error(uErr))
		users = nil
	}

	s.mu.Lock()
	s.home.SetQuery(q)
	s.home.SetPosts(posts)
	shown, total := s.home.Posts(), s.home.Len()
	s.mu.Unlock()

	authors := make(map[int64]string, len(shown))
	for _, p := range shown {
		authors[p.UserID] = feed.AuthorName(users, p.UserID)
	}
	return HomePage{Posts: shown, Total: total, Authors: authors, Users: users, UsersErr: uErr}, nil
}

// PostDetail loads a post, then its author; comments load alongside.
// Author and comment failures never blank the post.
func (s *BlogServiceImpl) PostDetail(ctx context.Context, id int64) (PostPage, error) {
	var (
		g        errgroup.Group
		page     PostPage
		comments []model.Comment
		cErr     error
	)
	g.Go(func() error {
		comments, cErr = query.Fetch(ctx, s.cache, keyComments(id), func(ctx context.Context) ([]model.Comment, error) {
			return s.comments.ListByPost(ctx, id)
		})
		return nil
	})
	g.Go(func() error {
		p, err := query.Fetch(ctx, s.cache, keyPost(id), func(ctx context.Context) (model.Post, error) {
			return s.posts.Get(ctx, id)
		})
		if err != nil {
			return err
		}
		page.Post = p
		u, err := s.user(ctx, p.UserID)
		if err != nil {
			page.AuthorErr = err
			page.AuthorName = feed.UnknownAuthor
			return nil
		}
		page.Author, page.AuthorName = &u, u.Name
		return nil
	})
	if err := g.Wait(); err != nil {
		return PostPage{}, fmt.Errorf("load post %d: %w", id, err)
	}
	if cErr != nil {
		s.log.Warn("post: comments unavailable", zap.Int64("post_id", id), zap.Error(cErr))
		page.CommentsErr = cErr
		comments = []model.Comment{}
	}
	page.Comments = comments
	return page, nil
}

// UserProfile loads a user and their posts in parallel. Only the user is required.
func (s *BlogServiceImpl) UserProfile(ctx context.Context, id int64) (ProfilePage, error) {
	var (
		g     errgroup.Group
		page  ProfilePage
		posts []model.Post
		pErr  error
	)
	g.Go(func() error {
		u, err := s.user(ctx, id)
		page.User = u
		return err
	})
	g.Go(func() error {
		posts, pErr = query.Fetch(ctx, s.cache, keyUserPosts(id), func(ctx context.Context) ([]model.Post, error) {
			return s.posts.ListByUser(ctx, id)
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return ProfilePage{}, fmt.Errorf("load user %d: %w", id, err)
	}
	if pErr != nil {
		page.PostsErr = pErr
		posts = []model.Post{}
	}
	page.Posts = posts
	return page, nil
}

// Users returns the provider's user list, e.g. for the author picker.
func (s *BlogServiceImpl) Users(ctx context.Context) ([]model.User, error) {
	return s.listUsers(ctx)
}

func (s *BlogServiceImpl) user(ctx context.Context, id int64) (model.User, error) {
	return query.Fetch(ctx, s.cache, keyUser(id), func(ctx context.Context) (model.User, error) {
		return s.users.Get(ctx, id)
	})
}

// CreatePost validates and publishes a draft. UserID 0 means the session identity.
func (s *BlogServiceImpl) CreatePost(ctx context.Context, d model.PostDraft) (model.Post, error) {
	d, err := s.prepare(ctx, d)
	if err != nil {
		return model.Post{}, err
	}
	p, err := s.posts.Create(ctx, d)
	if err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	s.cache.Invalidate(keyPosts)
	s.log.Info("post created", zap.Int64("post_id", p.ID), zap.Int64("user_id", p.UserID))
	return p, nil
}

// UpdatePost validates and saves a draft over post id.
func (s *BlogServiceImpl) UpdatePost(ctx context.Context, id int64, d model.PostDraft) (model.Post, error) {
	d, err := s.prepare(ctx, d)
	if err != nil {
		return model.Post{}, err
	}
	p, err := s.posts.Update(ctx, id, d)
	if err != nil {
		return model.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	s.cache.Invalidate(keyPosts)
	query.Set(s.cache, keyPost(id), p)
	s.log.Info("post updated", zap.Int64("post_id", id))
	return p, nil
}

// DeletePost removes post id at the provider and from every cached list, so the
// next pipeline run no longer sees it.
func (s *BlogServiceImpl) DeletePost(ctx context.Context, id int64) error {
	if _, ok := guard.IdentityFromCtx(ctx); !ok {
		return errs.ErrUnauthorized
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}

	// "posts" prefixes the full list and every per-user list, so the
	// owner's profile is covered without knowing the owner.
	n := query.MutatePrefix(s.cache, keyPosts, func(ps []model.Post) []model.Post {
		return feed.Remove(ps, id)
	})
	s.mu.Lock()
	s.home.Remove(id)
	s.mu.Unlock()
	s.cache.Invalidate(keyPost(id), keyComments(id))
	s.log.Info("post deleted", zap.Int64("post_id", id), zap.Int("lists_updated", n))
	return nil
}

func (s *BlogServiceImpl) prepare(ctx context.Context, d model.PostDraft) (model.PostDraft, error) {
	id, ok := guard.IdentityFromCtx(ctx)
	if !ok {
		return d, errs.ErrUnauthorized
	}
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Body) == "" {
		return d, errs.Invalid("Please fill in all required fields")
	}
	if d.UserID == 0 {
		d.UserID = id.ID
	}
	if d.UserID == 0 {
		d.UserID = defaultAuthorID
	}
	return d, nil
}

// IsFetchError reports whether err should be shown as "try again later".
func IsFetchError(err error) bool { return errors.Is(err, errs.ErrFetch) }
