package ranking_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/internal/ranking"
	"github.com/bwise1/media_ranker/internal/store"
	"github.com/bwise1/media_ranker/internal/testsupport"
	"github.com/google/uuid"
)

type limitSource struct {
	gotLimit int
	err      error
}

func (s *limitSource) TopWorks(_ context.Context, _ category.Category, limit int) ([]model.Work, error) {
	s.gotLimit = limit
	return nil, s.err
}

func (s *limitSource) BestWork(context.Context) (model.Work, error) {
	return model.Work{}, s.err
}

func (s *limitSource) AllWorks(context.Context) ([]model.Work, error) {
	return nil, s.err
}

func TestTopNLimitDefaults(t *testing.T) {
	tests := []struct {
		name         string
		defaultLimit int
		limit        int
		want         int
	}{
		{"explicit", 10, 3, 3},
		{"zero uses default", 10, 0, 10},
		{"negative uses default", 10, -4, 10},
		{"configured default", 5, 0, 5},
		{"bad default falls back", 0, 0, ranking.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &limitSource{}
			works, err := ranking.NewEngine(src, tt.defaultLimit).TopN(context.Background(), category.Book, tt.limit)
			if err != nil {
				t.Fatalf("TopN failed: %v", err)
			}
			if src.gotLimit != tt.want {
				t.Errorf("limit = %d; want %d", src.gotLimit, tt.want)
			}
			if works == nil {
				t.Errorf("expected an empty, non-nil slice")
			}
		})
	}
}

func TestTopNRejectsUnknownCategory(t *testing.T) {
	engine := ranking.NewEngine(&limitSource{}, 0)

	_, err := engine.TopN(context.Background(), category.Category("podcast"), 10)
	var verr *model.ValidationError
	if !errors.As(err, &verr) || !verr.Has("category") {
		t.Fatalf("expected category validation error, got %v", err)
	}
}

func TestSourceErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	engine := ranking.NewEngine(&limitSource{err: boom}, 0)
	ctx := context.Background()

	if _, err := engine.TopTen(ctx, category.Movie); !errors.Is(err, boom) {
		t.Errorf("TopTen error = %v", err)
	}
	if _, _, err := engine.BestOverall(ctx); !errors.Is(err, boom) {
		t.Errorf("BestOverall error = %v", err)
	}
	if _, err := engine.GroupedByCategory(ctx); !errors.Is(err, boom) {
		t.Errorf("GroupedByCategory error = %v", err)
	}
}

// seedWork adds a work to c with a random number of votes from voters.
func seedWork(t *testing.T, s store.Store, rng *rand.Rand, owner model.User, voters []model.User, c category.Category, title string) {
	t.Helper()
	work := testsupport.MustCreateWork(t, s, owner, c, title)
	testsupport.MustVote(t, s, work, voters[:rng.Intn(len(voters)+1)]...)
}

func TestTopTenGrowsThenCaps(t *testing.T) {
	s := testsupport.MustOpenStore(t)
	engine := ranking.NewEngine(s, 0)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	owner := testsupport.MustCreateUser(t, s, "owner")
	voters := testsupport.MustCreateUsers(t, s, "voter", 6)

	for _, c := range category.All() {
		t.Run(string(c), func(t *testing.T) {
			for i := 0; i < 8; i++ {
				seedWork(t, s, rng, owner, voters, c, fmt.Sprintf("%s %d", c, i))
			}
			for i, want := range []int{8, 9, 10, 10} {
				if i > 0 {
					seedWork(t, s, rng, owner, voters, c, fmt.Sprintf("%s extra %d", c, i))
				}
				top, err := engine.TopTen(ctx, c)
				if err != nil {
					t.Fatalf("TopTen failed: %v", err)
				}
				if len(top) != want {
					t.Fatalf("step %d: len(TopTen) = %d; want %d", i, len(top), want)
				}
				for j, w := range top {
					if w.Category != c {
						t.Fatalf("work %q has category %q in %s ranking", w.Title, w.Category, c)
					}
					if j > 0 && top[j-1].VoteCount < w.VoteCount {
						t.Fatalf("ranking not descending at %d: %d < %d", j, top[j-1].VoteCount, w.VoteCount)
					}
				}
			}
		})
	}
}

func TestTopNExcludesLowerRankedWorks(t *testing.T) {
	s := testsupport.MustOpenStore(t)
	engine := ranking.NewEngine(s, 0)
	ctx := context.Background()
	owner := testsupport.MustCreateUser(t, s, "owner")
	voters := testsupport.MustCreateUsers(t, s, "voter", 5)

	var all []model.Work
	for i := 0; i < 5; i++ {
		w := testsupport.MustCreateWork(t, s, owner, category.Album, fmt.Sprintf("album %d", i))
		testsupport.MustVote(t, s, w, voters[:i]...)
		all = append(all, w)
	}

	top, err := engine.TopN(ctx, category.Album, 2)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(top) != 2 || top[0].ID != all[4].ID || top[1].ID != all[3].ID {
		t.Fatalf("unexpected top two: %#v", top)
	}
}

func TestTiesGoToOlderWork(t *testing.T) {
	s := testsupport.MustOpenStore(t)
	engine := ranking.NewEngine(s, 0)
	ctx := context.Background()
	owner := testsupport.MustCreateUser(t, s, "owner")

	base := time.Now().UTC().Add(-time.Hour)
	var ids []uuid.UUID
	for i, title := range []string{"newer", "older"} {
		w := model.Work{
			ID:          uuid.New(),
			Title:       title,
			Category:    category.Movie,
			OwnerUserID: owner.ID,
			CreatedAt:   base.Add(time.Duration(-i) * time.Minute),
			UpdatedAt:   base,
		}
		if err := s.CreateWork(ctx, w); err != nil {
			t.Fatalf("CreateWork failed: %v", err)
		}
		ids = append(ids, w.ID)
	}

	top, err := engine.TopTen(ctx, category.Movie)
	if err != nil {
		t.Fatalf("TopTen failed: %v", err)
	}
	if len(top) != 2 || top[0].ID != ids[1] {
		t.Fatalf("expected older work first, got %#v", top)
	}
}

func TestBestOverall(t *testing.T) {
	s := testsupport.MustOpenStore(t)
	engine := ranking.NewEngine(s, 0)
	ctx := context.Background()

	if _, ok, err := engine.BestOverall(ctx); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	owner := testsupport.MustCreateUser(t, s, "owner")
	voters := testsupport.MustCreateUsers(t, s, "voter", 4)
	book := testsupport.MustCreateWork(t, s, owner, category.Book, "Dune")
	movie := testsupport.MustCreateWork(t, s, owner, category.Movie, "Heat")
	testsupport.MustVote(t, s, book, voters[:2]...)
	testsupport.MustVote(t, s, movie, voters...)

	best, ok, err := engine.BestOverall(ctx)
	if err != nil || !ok {
		t.Fatalf("BestOverall: ok=%v err=%v", ok, err)
	}
	if best.ID != movie.ID || best.VoteCount != 4 {
		t.Fatalf("BestOverall = %s (%d votes)", best.Title, best.VoteCount)
	}
}

func TestGroupedByCategoryIncludesEmptyCategories(t *testing.T) {
	s := testsupport.MustOpenStore(t)
	engine := ranking.NewEngine(s, 0)
	ctx := context.Background()
	owner := testsupport.MustCreateUser(t, s, "owner")
	testsupport.MustCreateWork(t, s, owner, category.Book, "Emma")
	testsupport.MustCreateWork(t, s, owner, category.Book, "Dune")

	grouped, err := engine.GroupedByCategory(ctx)
	if err != nil {
		t.Fatalf("GroupedByCategory failed: %v", err)
	}
	if len(grouped) != len(category.All()) {
		t.Fatalf("expected every category, got %d keys", len(grouped))
	}
	if albums, ok := grouped[category.Album]; !ok || albums == nil || len(albums) != 0 {
		t.Fatalf("albums = %#v, present=%v", albums, ok)
	}
	books := grouped[category.Book]
	if len(books) != 2 || books[0].Title != "Dune" || books[1].Title != "Emma" {
		t.Fatalf("books not sorted by title: %#v", books)
	}
}

func TestHome(t *testing.T) {
	s := testsupport.MustOpenStore(t)
	engine := ranking.NewEngine(s, 0)
	ctx := context.Background()
	owner := testsupport.MustCreateUser(t, s, "owner")
	fan := testsupport.MustCreateUser(t, s, "fan")
	w := testsupport.MustCreateWork(t, s, owner, category.Album, "Blue")
	testsupport.MustVote(t, s, w, fan)

	spot, err := engine.Home(ctx)
	if err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	if spot.Best == nil || spot.Best.ID != w.ID {
		t.Fatalf("unexpected best: %#v", spot.Best)
	}
	if len(spot.Categories) != 3 || spot.Categories[0].Label != "Albums" || len(spot.Categories[0].Works) != 1 {
		t.Fatalf("unexpected categories: %#v", spot.Categories)
	}
	if len(spot.Categories[2].Works) != 0 {
		t.Fatalf("expected no movies, got %#v", spot.Categories[2].Works)
	}
}
