// Package works validates and applies changes to works and their votes.
// Every mutation takes the acting user explicitly; a nil actor is an
// anonymous caller.
package works

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	msgBlank   = "can't be blank"
	msgTaken   = "has already been taken"
	msgMissing = "must exist"
	msgInvalid = "is not a valid category"
)

// Store is the persistence the service needs.
type Store interface {
	CreateWork(ctx context.Context, work model.Work) error
	GetWork(ctx context.Context, id uuid.UUID) (model.Work, error)
	UpdateWork(ctx context.Context, work model.Work) error
	DeleteWork(ctx context.Context, id uuid.UUID) error
	TitleTaken(ctx context.Context, c category.Category, title string, exclude uuid.UUID) (bool, error)
	CastVote(ctx context.Context, vote model.Vote) error
	VotesForWork(ctx context.Context, workID uuid.UUID) ([]model.VoteDetail, error)
}

// Notifier receives an event after each successful change.
type Notifier interface {
	Publish(event model.Event)
}

type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a Service. notifier may be nil.
func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger.With(zap.String("component", "works")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates req and stores a new work owned by actor.
func (s *Service) Create(ctx context.Context, actor *model.User, req model.WorkRequest) (model.Work, error) {
	verr := model.NewValidationError()
	if actor == nil {
		verr.Add("user", msgMissing)
	}

	now := s.now()
	work := model.Work{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if actor != nil {
		work.OwnerUserID = actor.ID
	}
	if err := s.apply(ctx, verr, &work, req); err != nil {
		return model.Work{}, err
	}
	if err := verr.Err(); err != nil {
		return model.Work{}, err
	}

	if err := s.store.CreateWork(ctx, work); err != nil {
		return model.Work{}, err
	}

	s.logger.Info("work created",
		zap.String("work_id", work.ID.String()),
		zap.String("category", work.Category.String()),
		zap.String("user_id", work.OwnerUserID.String()),
	)
	s.publish(model.EventWorkCreated, work)
	return work, nil
}

// Update replaces the editable fields of a work owned by actor.
func (s *Service) Update(ctx context.Context, actor *model.User, id uuid.UUID, req model.WorkRequest) (model.Work, error) {
	work, err := s.Editable(ctx, actor, id)
	if err != nil {
		return model.Work{}, err
	}

	verr := model.NewValidationError()
	if err := s.apply(ctx, verr, &work, req); err != nil {
		return model.Work{}, err
	}
	if err := verr.Err(); err != nil {
		return model.Work{}, err
	}

	work.UpdatedAt = s.now()
	if err := s.store.UpdateWork(ctx, work); err != nil {
		return model.Work{}, err
	}

	s.publish(model.EventWorkUpdated, work)
	return work, nil
}

// Delete removes a work owned by actor along with its votes.
func (s *Service) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	work, err := s.Editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteWork(ctx, id); err != nil {
		return err
	}

	s.logger.Info("work deleted", zap.String("work_id", id.String()), zap.Int("votes", work.VoteCount))
	work.VoteCount = 0
	s.publish(model.EventWorkDeleted, work)
	return nil
}

// SetCover records url as the cover image of a work owned by actor.
func (s *Service) SetCover(ctx context.Context, actor *model.User, id uuid.UUID, url string) (model.Work, error) {
	work, err := s.Editable(ctx, actor, id)
	if err != nil {
		return model.Work{}, err
	}

	work.CoverURL = strings.TrimSpace(url)
	work.UpdatedAt = s.now()
	if err := s.store.UpdateWork(ctx, work); err != nil {
		return model.Work{}, err
	}

	s.publish(model.EventWorkUpdated, work)
	return work, nil
}

// Editable loads a work and checks that actor may change it.
func (s *Service) Editable(ctx context.Context, actor *model.User, id uuid.UUID) (model.Work, error) {
	if actor == nil {
		return model.Work{}, model.ErrUnauthenticated
	}
	work, err := s.store.GetWork(ctx, id)
	if err != nil {
		return model.Work{}, err
	}
	if !actor.IsOwner(work) {
		return model.Work{}, model.ErrForbidden
	}
	return work, nil
}

// Get returns a work with its current vote count.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Work, error) {
	return s.store.GetWork(ctx, id)
}

// Votes lists the votes on a work, newest first.
func (s *Service) Votes(ctx context.Context, id uuid.UUID) ([]model.VoteDetail, error) {
	if _, err := s.store.GetWork(ctx, id); err != nil {
		return nil, err
	}
	return s.store.VotesForWork(ctx, id)
}

// Detail returns a work together with its votes.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (model.WorkDetail, error) {
	work, err := s.store.GetWork(ctx, id)
	if err != nil {
		return model.WorkDetail{}, err
	}
	votes, err := s.store.VotesForWork(ctx, id)
	if err != nil {
		return model.WorkDetail{}, err
	}
	if votes == nil {
		votes = []model.VoteDetail{}
	}
	return model.WorkDetail{Work: work, Votes: votes}, nil
}

// Upvote records one vote by actor for the work. A second vote by the same
// user fails with model.ErrAlreadyVoted.
func (s *Service) Upvote(ctx context.Context, actor *model.User, id uuid.UUID) (model.Vote, error) {
	if actor == nil {
		return model.Vote{}, model.ErrUnauthenticated
	}

	vote := model.Vote{
		ID:        uuid.New(),
		UserID:    actor.ID,
		WorkID:    id,
		CreatedAt: s.now(),
	}
	if err := s.store.CastVote(ctx, vote); err != nil {
		return model.Vote{}, err
	}

	work, err := s.store.GetWork(ctx, id)
	if err != nil {
		s.logger.Warn("reload work after vote", zap.String("work_id", id.String()), zap.Error(err))
		return vote, nil
	}
	s.publish(model.EventVoteCast, work)
	return vote, nil
}

// apply copies req onto work, recording every field failure on verr. The
// returned error is reserved for store failures.
func (s *Service) apply(ctx context.Context, verr *model.ValidationError, work *model.Work, req model.WorkRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		verr.Add("title", msgBlank)
	}

	c, err := category.Normalize(req.Category)
	if err != nil {
		verr.Add(category.Field, categoryMessage(err))
	}

	work.Title = req.Title
	work.Category = c
	work.Creator = strings.TrimSpace(req.Creator)
	work.Description = strings.TrimSpace(req.Description)
	work.PublicationYear = req.PublicationYear

	if verr.Has("title") || verr.Has(category.Field) {
		return nil
	}
	taken, err := s.store.TitleTaken(ctx, work.Category, work.Title, work.ID)
	if err != nil {
		return pkgerrors.Wrap(err, "check title uniqueness")
	}
	if taken {
		verr.Add("title", msgTaken)
	}
	return nil
}

func categoryMessage(err error) string {
	var invalid *category.InvalidError
	if errors.As(err, &invalid) {
		if s, ok := invalid.Raw.(string); invalid.Raw == nil || (ok && strings.TrimSpace(s) == "") {
			return msgBlank
		}
	}
	return msgInvalid
}

func (s *Service) publish(eventType string, work model.Work) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(model.Event{
		Type:      eventType,
		WorkID:    work.ID,
		Title:     work.Title,
		Category:  work.Category,
		VoteCount: work.VoteCount,
	})
}
