// Package ranking answers the read-only questions about works: the top N in
// a category, the best work overall and every work grouped by category.
// Vote counts are computed by the store on each call; nothing is cached.
package ranking

import (
	"context"
	"errors"
	"sort"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	pkgerrors "github.com/pkg/errors"
)

// DefaultLimit is used when a caller asks for zero or fewer works.
const DefaultLimit = 10

// Source is the store surface the engine reads from.
type Source interface {
	TopWorks(ctx context.Context, c category.Category, limit int) ([]model.Work, error)
	BestWork(ctx context.Context) (model.Work, error)
	AllWorks(ctx context.Context) ([]model.Work, error)
}

type Engine struct {
	source       Source
	defaultLimit int
}

// NewEngine returns an Engine. A non-positive defaultLimit means DefaultLimit.
func NewEngine(source Source, defaultLimit int) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Engine{source: source, defaultLimit: defaultLimit}
}

// TopN returns up to limit works of category c, most votes first. Ties go
// to the older work.
func (e *Engine) TopN(ctx context.Context, c category.Category, limit int) ([]model.Work, error) {
	if !c.Valid() {
		return nil, model.FieldError(category.Field, "is not a valid category")
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}

	works, err := e.source.TopWorks(ctx, c, limit)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "top %d %s", limit, c.Plural())
	}
	if works == nil {
		works = []model.Work{}
	}
	return works, nil
}

func (e *Engine) TopTen(ctx context.Context, c category.Category) ([]model.Work, error) {
	return e.TopN(ctx, c, 10)
}

// BestOverall returns the work with the most votes in any category. The
// boolean is false when there are no works at all.
func (e *Engine) BestOverall(ctx context.Context) (model.Work, bool, error) {
	work, err := e.source.BestWork(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return model.Work{}, false, nil
	}
	if err != nil {
		return model.Work{}, false, pkgerrors.Wrap(err, "best work")
	}
	return work, true, nil
}

// GroupedByCategory returns every work keyed by category, each list sorted
// by title. Every known category has an entry, even when it is empty.
func (e *Engine) GroupedByCategory(ctx context.Context) (map[category.Category][]model.Work, error) {
	all, err := e.source.AllWorks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list works")
	}

	grouped := make(map[category.Category][]model.Work, len(category.All()))
	for _, c := range category.All() {
		grouped[c] = []model.Work{}
	}
	for _, w := range all {
		if _, ok := grouped[w.Category]; !ok {
			continue
		}
		grouped[w.Category] = append(grouped[w.Category], w)
	}
	for c := range grouped {
		list := grouped[c]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Title != list[j].Title {
				return list[i].Title < list[j].Title
			}
			return list[i].ID.String() < list[j].ID.String()
		})
	}
	return grouped, nil
}

// CategoryRanking is one category's top works.
type CategoryRanking struct {
	Category category.Category `json:"category"`
	Label    string            `json:"label"`
	Works    []model.Work      `json:"works"`
}

// Spotlight is the landing view: the best work and each category's top ten.
type Spotlight struct {
	Best       *model.Work       `json:"best,omitempty"`
	Categories []CategoryRanking `json:"categories"`
}

func (e *Engine) Home(ctx context.Context) (Spotlight, error) {
	var spot Spotlight

	best, ok, err := e.BestOverall(ctx)
	if err != nil {
		return Spotlight{}, err
	}
	if ok {
		spot.Best = &best
	}

	for _, c := range category.All() {
		top, err := e.TopTen(ctx, c)
		if err != nil {
			return Spotlight{}, err
		}
		spot.Categories = append(spot.Categories, CategoryRanking{
			Category: c,
			Label:    c.Label(),
			Works:    top,
		})
	}
	return spot, nil
}
