package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"photovote/internal/models"
	"photovote/internal/testutil"
)

// TestEndToEndVotingFlow walks the whole surface: register two users,
// create photos, vote repeatedly, check the ranking, then tear one
// photo down.
func TestEndToEndVotingFlow(t *testing.T) {
	st := testutil.NewStore(t)
	r := testutil.NewRouter(t, st, testutil.TestConfig())

	// Register user A through the route, not a fixture.
	w := testutil.PostForm(r, "/register", url.Values{
		"first_name": {"Alice"},
		"last_name":  {"Archer"},
		"department": {"Design"},
		"email":      {"alice@example.com"},
		"password":   {testutil.TestPassword},
	}, nil)
	testutil.AssertStatus(t, w, http.StatusFound)
	aliceCookies := w.Result().Cookies()

	// A creates photo P (and a second, less popular one for ranking).
	w = testutil.PostForm(r, "/new-photo", url.Values{
		"title":   {"P"},
		"place":   {"Madeira"},
		"img_url": {"https://photos.example.com/p.jpg"},
	}, aliceCookies)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created struct {
		Photo models.Photo `json:"photo"`
	}
	testutil.DecodeJSON(t, w, &created)
	p := created.Photo

	w = testutil.PostForm(r, "/new-photo", url.Values{
		"title":   {"Q"},
		"place":   {"Faro"},
		"img_url": {"https://photos.example.com/q.jpg"},
	}, aliceCookies)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var other struct {
		Photo models.Photo `json:"photo"`
	}
	testutil.DecodeJSON(t, w, &other)

	// User B votes on P three times.
	testutil.CreateUser(t, st, "bob@example.com", models.RoleMember)
	bobCookies := testutil.Login(t, r, "bob@example.com")
	for i := 0; i < 3; i++ {
		w = testutil.Get(r, "/vote?photo_id="+itoa(p.ID), bobCookies)
		testutil.AssertStatus(t, w, http.StatusFound)
	}
	// One vote for Q so the ranking has something to beat.
	w = testutil.Get(r, "/vote?photo_id="+itoa(other.Photo.ID), bobCookies)
	testutil.AssertStatus(t, w, http.StatusFound)

	// P counts 3 and ranks above Q.
	var list struct {
		Photos []models.Photo `json:"photos"`
	}
	w = testutil.Get(r, "/", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &list)
	if len(list.Photos) != 2 {
		t.Fatalf("len(photos) = %d, want 2", len(list.Photos))
	}
	if list.Photos[0].ID != p.ID || list.Photos[0].VoteCount != 3 {
		t.Fatalf("P should rank first with 3 votes: %+v", list.Photos)
	}
	if list.Photos[1].VoteCount >= list.Photos[0].VoteCount {
		t.Errorf("ranking not descending: %+v", list.Photos)
	}

	// B comments on P; the photo page shows the comment and the voters.
	w = testutil.PostForm(r, "/photo?photo_id="+itoa(p.ID),
		url.Values{"text": {"three votes from me"}}, bobCookies)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var view struct {
		Photo    models.Photo     `json:"photo"`
		Comments []models.Comment `json:"comments"`
		Voters   []models.Voter   `json:"voters"`
	}
	w = testutil.Get(r, "/photo?photo_id="+itoa(p.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &view)
	if len(view.Voters) != 3 {
		t.Errorf("voters = %d entries, want 3", len(view.Voters))
	}
	if len(view.Comments) != 1 {
		t.Errorf("comments = %+v", view.Comments)
	}

	// A deletes P; it is gone along with its comments and votes.
	w = testutil.Get(r, "/delete_photo?photo_id="+itoa(p.ID), aliceCookies)
	testutil.AssertStatus(t, w, http.StatusFound)

	w = testutil.Get(r, "/photo?photo_id="+itoa(p.ID), nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = testutil.Get(r, "/", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.DecodeJSON(t, w, &list)
	if len(list.Photos) != 1 || list.Photos[0].ID != other.Photo.ID {
		t.Errorf("listing after delete = %+v", list.Photos)
	}
}
