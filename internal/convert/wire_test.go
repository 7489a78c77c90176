package convert

import (
	"encoding/json"
	"testing"

	model "github.com/and161185/blogfront/internal/model"
)

const userDoc = `{
  "id": 1,
  "name": "Leanne Graham",
  "username": "Bret",
  "email": "Sincere@april.biz",
  "address": {
    "street": "Kulas Light",
    "suite": "Apt. 556",
    "city": "Gwenborough",
    "zipcode": "92998-3874",
    "geo": {"lat": "-37.3159", "lng": "81.1496"}
  },
  "phone": "1-770-736-8031 x56442",
  "website": "hildegard.org",
  "company": {
    "name": "Romaguera-Crona",
    "catchPhrase": "Multi-layered client-server neural-net",
    "bs": "harness real-time e-markets"
  }
}`

func TestToUser_ProfileFields(t *testing.T) {
	t.Parallel()

	var w User
	if err := json.Unmarshal([]byte(userDoc), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	u := ToUser(w)
	if u.ID != 1 || u.Username != "Bret" || u.Website != "hildegard.org" {
		t.Fatalf("scalar fields mismatch: %+v", u)
	}
	if u.Address.City != "Gwenborough" || u.Address.Geo.Lng != "81.1496" {
		t.Fatalf("address mismatch: %+v", u.Address)
	}
	if u.Company.CatchPhrase != "Multi-layered client-server neural-net" {
		t.Fatalf("company mismatch: %+v", u.Company)
	}
}

func TestToPosts_NilGivesEmpty(t *testing.T) {
	t.Parallel()

	if got := ToPosts(nil); got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
	if got := ToComments(nil); got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
	if got := ToUsers(nil); got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestFromDraft_JSONShape(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(FromDraft(0, model.PostDraft{Title: "t", Body: "b", UserID: 3}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"userId":3,"title":"t","body":"b"}` {
		t.Fatalf("create body must omit id: %s", b)
	}

	b, _ = json.Marshal(FromDraft(7, model.PostDraft{Title: "t", Body: "b", UserID: 3}))
	if string(b) != `{"id":7,"userId":3,"title":"t","body":"b"}` {
		t.Fatalf("update body must carry id: %s", b)
	}
}

func TestToComments(t *testing.T) {
	t.Parallel()

	in := []Comment{{ID: 1, PostID: 2, Name: "n", Email: "e@x", Body: "b"}}
	got := ToComments(in)
	want := model.Comment{ID: 1, PostID: 2, Name: "n", Email: "e@x", Body: "b"}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %+v", got)
	}
}
