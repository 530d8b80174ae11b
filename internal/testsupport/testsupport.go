// Package testsupport opens throwaway SQLite stores and seeds them for tests.
package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MustOpenStore returns a migrated SQLite store in a temp dir, closed when
// the test ends.
func MustOpenStore(t testing.TB) *store.SQLite {
	t.Helper()

	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "media_ranker.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate store: %v", err)
	}
	return s
}

// MustCreateUser inserts a github user named username.
func MustCreateUser(t testing.TB, s store.Store, username string) model.User {
	t.Helper()

	user := model.User{
		ID:        uuid.New(),
		UID:       "uid-" + username,
		Provider:  "github",
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// MustCreateUsers inserts n users named prefix0..prefixN-1.
func MustCreateUsers(t testing.TB, s store.Store, prefix string, n int) []model.User {
	t.Helper()

	users := make([]model.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, MustCreateUser(t, s, fmt.Sprintf("%s%d", prefix, i)))
	}
	return users
}

// MustCreateWork inserts a work directly, skipping service validation.
func MustCreateWork(t testing.TB, s store.Store, owner model.User, c category.Category, title string) model.Work {
	t.Helper()

	now := time.Now().UTC()
	work := model.Work{
		ID:          uuid.New(),
		Title:       title,
		Category:    c,
		OwnerUserID: owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.CreateWork(context.Background(), work); err != nil {
		t.Fatalf("create work %s: %v", title, err)
	}
	return work
}

// MustVote records a vote by each of voters for work.
func MustVote(t testing.TB, s store.Store, work model.Work, voters ...model.User) {
	t.Helper()

	for _, voter := range voters {
		vote := model.Vote{
			ID:        uuid.New(),
			UserID:    voter.ID,
			WorkID:    work.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.CastVote(context.Background(), vote); err != nil {
			t.Fatalf("vote by %s for %s: %v", voter.Username, work.Title, err)
		}
	}
}
