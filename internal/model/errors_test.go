package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidationErrorCollectsFields(t *testing.T) {
	verr := NewValidationError()
	if verr.Err() != nil {
		t.Fatal("empty validation error should convert to nil")
	}

	verr.Add("title", "can't be blank")
	verr.Add("category", "is not a valid category")
	verr.Add("title", "is too long")

	err := verr.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	var target *ValidationError
	if !errors.As(err, &target) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !target.Has("title") || !target.Has("category") || target.Has("user") {
		t.Errorf("unexpected fields: %v", target.Fields)
	}

	want := "validation failed: category is not a valid category; title can't be blank; title is too long"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q; want %q", got, want)
	}
}

func TestIsOwner(t *testing.T) {
	owner := &User{ID: uuid.New()}
	other := &User{ID: uuid.New()}
	work := Work{ID: uuid.New(), OwnerUserID: owner.ID}

	if !owner.IsOwner(work) {
		t.Error("owner should own the work")
	}
	if other.IsOwner(work) {
		t.Error("other user should not own the work")
	}
	var nobody *User
	if nobody.IsOwner(work) {
		t.Error("nil user should not own the work")
	}
}
