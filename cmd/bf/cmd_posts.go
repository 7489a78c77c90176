package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and161185/blogfront/internal/feed"
	"github.com/and161185/blogfront/internal/model"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func postsCmd(a *app) *cobra.Command {
	var search, author, sortMode string
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts with optional search, author filter and sort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := feed.ParseSortMode(sortMode)
			if err != nil {
				return err
			}
			af, err := feed.ParseAuthorFilter(author)
			if err != nil {
				return err
			}
			page, err := a.blog.Home(cmd.Context(), feed.Query{Search: search, Author: af, Sort: mode})
			if err != nil {
				return a.report(err, "Error Loading Posts", "Please try again later.")
			}
			if a.jsonOut {
				printJSON(a.out, page.Posts)
				return nil
			}
			if len(page.Posts) == 0 {
				if page.Total == 0 {
					fmt.Fprintln(a.out, "No posts published yet.")
				} else {
					fmt.Fprintln(a.out, "No posts found. Try adjusting your search or filters.")
				}
				return nil
			}
			tw := newTable(a.out, "ID", "AUTHOR", "TITLE")
			for _, p := range page.Posts {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, page.Authors[p.UserID], clip(p.Title, 60))
			}
			_ = tw.Flush()
			fmt.Fprintf(a.out, "\n%d of %d posts\n", len(page.Posts), page.Total)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&search, "search", "s", "", "case-insensitive text to find in title or body")
	f.StringVarP(&author, "author", "a", "all", "author id, or \"all\"")
	f.StringVar(&sortMode, "sort", string(feed.SortRecent), "recent, oldest or title")
	return cmd
}

func postCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "post <id>",
		Short: "Show a post with its author and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := a.blog.PostDetail(cmd.Context(), id)
			if err != nil {
				return a.notFound(err, "Error Loading Post", "Post Not Found", "The post you're looking for doesn't exist.")
			}
			if a.jsonOut {
				printJSON(a.out, struct {
					Post       model.Post
					Author     *model.User
					AuthorName string
					Comments   []model.Comment
				}{page.Post, page.Author, page.AuthorName, page.Comments})
				return nil
			}
			fmt.Fprintf(a.out, "#%d %s\nby %s\n\n%s\n", page.Post.ID, page.Post.Title, page.AuthorName, page.Post.Body)
			if page.Author != nil {
				fmt.Fprintf(a.out, "\nAbout the Author: %s (@%s) %s\n", page.Author.Name, page.Author.Username, page.Author.Email)
			}
			fmt.Fprintf(a.out, "\nComments (%d)\n", len(page.Comments))
			switch {
			case page.CommentsErr != nil:
				fmt.Fprintln(a.out, "  comments are unavailable right now")
			case len(page.Comments) == 0:
				fmt.Fprintln(a.out, "  No comments yet. Be the first to comment!")
			}
			for _, c := range page.Comments {
				fmt.Fprintf(a.out, "  - %s <%s>\n    %s\n", c.Name, c.Email, clip(c.Body, 100))
			}
			return nil
		},
	}
}

func userCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user profile and their posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := a.blog.UserProfile(cmd.Context(), id)
			if err != nil {
				return a.notFound(err, "Error Loading User", "User Not Found", "The user profile you're looking for doesn't exist.")
			}
			if a.jsonOut {
				printJSON(a.out, struct {
					User  model.User
					Posts []model.Post
				}{page.User, page.Posts})
				return nil
			}
			u := page.User
			fmt.Fprintf(a.out, "%s (@%s)\n%s  %s  %s\n", u.Name, u.Username, u.Email, u.Phone, u.Website)
			fmt.Fprintf(a.out, "%s, %s, %s %s\n", u.Address.Street, u.Address.Suite, u.Address.City, u.Address.Zipcode)
			fmt.Fprintf(a.out, "Company: %s - %s\n\n", u.Company.Name, u.Company.CatchPhrase)
			if page.PostsErr != nil {
				fmt.Fprintln(a.out, "posts are unavailable right now")
				return nil
			}
			tw := newTable(a.out, "ID", "TITLE")
			for _, p := range page.Posts {
				fmt.Fprintf(tw, "%d\t%s\n", p.ID, clip(p.Title, 70))
			}
			return tw.Flush()
		},
	}
}

func usersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.blog.Users(cmd.Context())
			if err != nil {
				return a.report(err, "Error Loading Users", "Please try again later.")
			}
			if a.jsonOut {
				printJSON(a.out, users)
				return nil
			}
			tw := newTable(a.out, "ID", "NAME", "USERNAME", "EMAIL")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Username, u.Email)
			}
			return tw.Flush()
		},
	}
}

func createCmd(a *app) *cobra.Command {
	var d model.PostDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post (login required)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.guard.Protect(func(ctx context.Context) error {
				p, err := a.blog.CreatePost(ctx, d)
				if err != nil {
					return a.report(err, "Failed to create post", "Please try again later.")
				}
				a.console.Success("Post created successfully!", "Your post has been published and is now live.")
				return a.showPost(p)
			})(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&d.Title, "title", "t", "", "post title")
	f.StringVarP(&d.Body, "body", "b", "", "post body")
	f.Int64Var(&d.UserID, "user", 0, "author id (default: logged-in user)")
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var d model.PostDraft
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a post; unset flags keep the current value (login required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.guard.Protect(func(ctx context.Context) error {
				cur, err := a.blog.PostDetail(ctx, id)
				if err != nil {
					return a.notFound(err, "Error Loading Post", "Post Not Found", "The post you're trying to edit doesn't exist.")
				}
				next := model.PostDraft{Title: cur.Post.Title, Body: cur.Post.Body, UserID: cur.Post.UserID}
				fl := cmd.Flags()
				if fl.Changed("title") {
					next.Title = d.Title
				}
				if fl.Changed("body") {
					next.Body = d.Body
				}
				if fl.Changed("user") {
					next.UserID = d.UserID
				}
				p, err := a.blog.UpdatePost(ctx, id, next)
				if err != nil {
					return a.report(err, "Failed to update post", "Please try again later.")
				}
				a.console.Success("Post updated successfully!", "Your changes have been saved.")
				return a.showPost(p)
			})(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&d.Title, "title", "t", "", "new title")
	f.StringVarP(&d.Body, "body", "b", "", "new body")
	f.Int64Var(&d.UserID, "user", 0, "new author id")
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post (login required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.guard.Protect(func(ctx context.Context) error {
				if !yes && !a.confirm(fmt.Sprintf("Delete post %d?", id)) {
					fmt.Fprintln(a.out, "cancelled")
					return nil
				}
				if err := a.blog.DeletePost(ctx, id); err != nil {
					return a.report(err, "Failed to delete post", "")
				}
				a.console.Success("Post deleted successfully!", "")
				a.console.Redirect("/")
				return nil
			})(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) showPost(p model.Post) error {
	if a.jsonOut {
		printJSON(a.out, p)
		return nil
	}
	fmt.Fprintf(a.out, "#%d %s (user %d)\n", p.ID, p.Title, p.UserID)
	return nil
}

// confirm asks a yes/no question on the command input.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
