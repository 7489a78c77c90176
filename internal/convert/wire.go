// Package convert maps provider JSON documents to domain types and back.
package convert

import (
	model "github.com/and161185/blogfront/internal/model"
)

// --- wire shapes (JSONPlaceholder layout) ---

// Post is the provider's post document.
type Post struct {
	ID     int64  `json:"id,omitempty"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Geo is nested inside Address.
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Address is nested inside User.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Company is nested inside User.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// User is the provider's user document.
type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

// Comment is the provider's comment document.
type Comment struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// --- Posts ---

// ToPost converts a wire post to the domain struct.
func ToPost(in Post) model.Post {
	return model.Post{ID: in.ID, UserID: in.UserID, Title: in.Title, Body: in.Body}
}

// ToPosts converts a list; nil input gives an empty slice.
func ToPosts(in []Post) []model.Post {
	out := make([]model.Post, 0, len(in))
	for _, p := range in {
		out = append(out, ToPost(p))
	}
	return out
}

// FromDraft builds the request document for create (id=0) or update.
func FromDraft(id int64, d model.PostDraft) Post {
	return Post{ID: id, UserID: d.UserID, Title: d.Title, Body: d.Body}
}

// --- Users ---

// ToUser converts a wire user including read-only profile fields.
func ToUser(in User) model.User {
	return model.User{
		ID:       in.ID,
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Website:  in.Website,
		Address: model.Address{
			Street:  in.Address.Street,
			Suite:   in.Address.Suite,
			City:    in.Address.City,
			Zipcode: in.Address.Zipcode,
			Geo:     model.Geo{Lat: in.Address.Geo.Lat, Lng: in.Address.Geo.Lng},
		},
		Company: model.Company{
			Name:        in.Company.Name,
			CatchPhrase: in.Company.CatchPhrase,
			BS:          in.Company.BS,
		},
	}
}

// ToUsers converts a list; nil input gives an empty slice.
func ToUsers(in []User) []model.User {
	out := make([]model.User, 0, len(in))
	for _, u := range in {
		out = append(out, ToUser(u))
	}
	return out
}

// --- Comments ---

// ToComments converts a list; nil input gives an empty slice.
func ToComments(in []Comment) []model.Comment {
	out := make([]model.Comment, 0, len(in))
	for _, c := range in {
		out = append(out, model.Comment{
			ID:     c.ID,
			PostID: c.PostID,
			Name:   c.Name,
			Email:  c.Email,
			Body:   c.Body,
		})
	}
	return out
}
