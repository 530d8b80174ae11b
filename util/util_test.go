package util

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/google/uuid"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		status string
		want   int
	}{
		{values.Success, http.StatusOK},
		{values.Created, http.StatusCreated},
		{values.Error, http.StatusInternalServerError},
		{values.BadRequestBody, http.StatusBadRequest},
		{values.Unprocessable, http.StatusUnprocessableEntity},
		{values.NotAllowed, http.StatusForbidden},
		{values.Conflict, http.StatusConflict},
		{values.NotFound, http.StatusNotFound},
		{values.NotAuthorised, http.StatusUnauthorized},
		{values.TokenExpired, http.StatusUnauthorized},
		{"anything-else", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			if got := StatusCode(tc.status); got != tc.want {
				t.Errorf("StatusCode(%q) = %d; want %d", tc.status, got, tc.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Kind of Blue", "kind-of-blue"},
		{"  The   Left Hand of Darkness ", "the-left-hand-of-darkness"},
		{"Amélie", "amlie"},
		{"2001: A Space Odyssey", "2001-a-space-odyssey"},
		{"snake_case-title", "snake_case-title"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Errorf("Slugify(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"plain", "5", 5, false},
		{"clamped", "500", 100, false},
		{"negative passes through", "-1", -1, false},
		{"garbage", "ten", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLimit(tc.raw, 100)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLimit(%q) error = %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("ParseLimit(%q) = %d; want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	testCases := []struct {
		name   string
		req    model.WorkRequest
		fields []string
	}{
		{"valid", model.WorkRequest{Title: "Dune", Category: "Books"}, nil},
		{"missing title", model.WorkRequest{Category: "movie"}, []string{"title"}},
		{"bad category", model.WorkRequest{Title: "x", Category: "podcast"}, []string{"category"}},
		{"numeric category", model.WorkRequest{Title: "x", Category: float64(1337)}, []string{"category"}},
		{"missing category", model.WorkRequest{Title: "x"}, []string{"category"}},
		{"bad year", model.WorkRequest{Title: "x", Category: "album", PublicationYear: IntPtr(12000)}, []string{"publication_year"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if len(tc.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			for _, f := range tc.fields {
				if !verr.Has(f) {
					t.Errorf("expected error on %q, got %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	if CurrentUser(context.Background()) != nil {
		t.Fatal("expected no user on a bare context")
	}

	user := model.User{ID: uuid.New(), Username: "dan"}
	got := CurrentUser(WithUser(context.Background(), user))
	if got == nil || got.ID != user.ID {
		t.Fatalf("CurrentUser = %#v", got)
	}
}

func TestRandomString(t *testing.T) {
	a, err := RandomString(16)
	if err != nil {
		t.Fatalf("RandomString failed: %v", err)
	}
	b, _ := RandomString(16)
	if len(a) != 32 || a == b {
		t.Fatalf("unexpected random strings %q, %q", a, b)
	}
}
