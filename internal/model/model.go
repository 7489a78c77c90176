// Package model defines domain entities shared by the provider client, pipeline and session.
package model

// Post is a blog entry. ID is assigned by the provider and doubles as the recency proxy.
type Post struct {
	ID     int64
	UserID int64 // FK -> User.ID, may not resolve
	Title  string
	Body   string
}

// PostDraft is the editable part of a post sent on create/update.
type PostDraft struct {
	Title  string
	Body   string
	UserID int64
}

// Geo is a user's address coordinate pair as the provider reports it.
type Geo struct {
	Lat string
	Lng string
}

// Address is a read-only profile field.
type Address struct {
	Street  string
	Suite   string
	City    string
	Zipcode string
	Geo     Geo
}

// Company is a read-only profile field.
type Company struct {
	Name        string
	CatchPhrase string
	BS          string
}

// User is an author known to the provider. Never created locally.
type User struct {
	ID       int64
	Name     string
	Username string
	Email    string
	Phone    string
	Website  string
	Address  Address
	Company  Company
}

// Comment belongs to a post and is read-only.
type Comment struct {
	ID     int64
	PostID int64
	Name   string
	Email  string
	Body   string
}

// Identity is the locally simulated session user persisted in durable storage.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
