package store

import (
	"context"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/db"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	db     *db.DB
	logger *zap.Logger
}

var _ Store = (*Postgres)(nil)

func NewPostgres(database *db.DB, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{db: database, logger: logger.With(zap.String("component", "store.postgres"))}
}

func (s *Postgres) Close() error {
	s.db.Close()
	return nil
}

func (s *Postgres) Migrate(ctx context.Context) error {
	migrations, err := loadMigrations(dialectPostgres)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createMigrationsTable); err != nil {
			return errors.Wrap(err, "ensure schema_migrations")
		}
		for _, m := range migrations {
			var applied bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&applied); err != nil {
				return errors.Wrapf(err, "check migration %s", m.version)
			}
			if applied {
				continue
			}
			if _, err := tx.Exec(ctx, m.sql); err != nil {
				return errors.Wrapf(err, "apply migration %s", m.version)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
				return errors.Wrapf(err, "record migration %s", m.version)
			}
			s.logger.Info("migration applied", zap.String("version", m.version))
		}
		return nil
	})
}

func (s *Postgres) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.Pool().Exec(ctx, insertUserStmt, userArgs(user)...)
	if err != nil {
		return errors.Wrap(translateUnique(err), "creating user")
	}
	return nil
}

func (s *Postgres) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := scanUser(s.db.Pool().QueryRow(ctx, getUserStmt, id))
	return user, notFound(err, "getting user")
}

func (s *Postgres) FindUserByUID(ctx context.Context, provider, uid string) (model.User, error) {
	user, err := scanUser(s.db.Pool().QueryRow(ctx, findUserStmt, provider, uid))
	return user, notFound(err, "finding user by uid")
}

func (s *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.Pool().Query(ctx, listUsersStmt)
	if err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning user")
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Postgres) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool().Exec(ctx, deleteUserStmt, id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Postgres) CreateWork(ctx context.Context, work model.Work) error {
	_, err := s.db.Pool().Exec(ctx, insertWorkStmt, insertWorkArgs(work)...)
	if err != nil {
		return errors.Wrap(translateUnique(err), "creating work")
	}
	return nil
}

func (s *Postgres) GetWork(ctx context.Context, id uuid.UUID) (model.Work, error) {
	work, err := scanWork(s.db.Pool().QueryRow(ctx, getWorkStmt, id))
	return work, notFound(err, "getting work")
}

func (s *Postgres) UpdateWork(ctx context.Context, work model.Work) error {
	result, err := s.db.Pool().Exec(ctx, updateWorkStmt, updateWorkArgs(work)...)
	if err != nil {
		return errors.Wrap(translateUnique(err), "updating work")
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteWork(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool().Exec(ctx, deleteWorkStmt, id)
	if err != nil {
		return errors.Wrap(err, "deleting work")
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Postgres) TitleTaken(ctx context.Context, c category.Category, title string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.Pool().QueryRow(ctx, titleTakenStmt, string(c), title, exclude).Scan(&taken)
	if err != nil {
		return false, errors.Wrap(err, "checking title")
	}
	return taken, nil
}

func (s *Postgres) WorksByOwner(ctx context.Context, userID uuid.UUID) ([]model.Work, error) {
	return s.queryWorks(ctx, "works by owner", worksByOwnerStmt, userID)
}

func (s *Postgres) VotedWorks(ctx context.Context, userID uuid.UUID) ([]model.Work, error) {
	return s.queryWorks(ctx, "voted works", votedWorksStmt, userID)
}

// CastVote records vote unless the user already voted for the work. The
// existence check and the insert share one transaction.
func (s *Postgres) CastVote(ctx context.Context, vote model.Vote) error {
	return s.db.RunInTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, workExistsStmt, vote.WorkID).Scan(&exists); err != nil {
			return errors.Wrap(err, "checking work")
		}
		if !exists {
			return model.ErrNotFound
		}

		result, err := tx.Exec(ctx, insertVoteStmt, vote.ID, vote.UserID, vote.WorkID, vote.CreatedAt.UTC())
		if err != nil {
			return errors.Wrap(err, "inserting vote")
		}
		if result.RowsAffected() == 0 {
			return model.ErrAlreadyVoted
		}
		return nil
	})
}

func (s *Postgres) VotesForWork(ctx context.Context, workID uuid.UUID) ([]model.VoteDetail, error) {
	rows, err := s.db.Pool().Query(ctx, votesForWorkStmt, workID)
	if err != nil {
		return nil, errors.Wrap(err, "listing votes")
	}
	defer rows.Close()

	votes := []model.VoteDetail{}
	for rows.Next() {
		vote, err := scanVoteDetail(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning vote")
		}
		votes = append(votes, vote)
	}
	return votes, rows.Err()
}

func (s *Postgres) CountVotes(ctx context.Context, workID uuid.UUID) (int, error) {
	var count int
	if err := s.db.Pool().QueryRow(ctx, countVotesStmt, workID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting votes")
	}
	return count, nil
}

func (s *Postgres) TopWorks(ctx context.Context, c category.Category, limit int) ([]model.Work, error) {
	return s.queryWorks(ctx, "top works", topWorksStmt, string(c), limit)
}

func (s *Postgres) BestWork(ctx context.Context) (model.Work, error) {
	work, err := scanWork(s.db.Pool().QueryRow(ctx, bestWorkStmt))
	return work, notFound(err, "getting best work")
}

func (s *Postgres) AllWorks(ctx context.Context) ([]model.Work, error) {
	return s.queryWorks(ctx, "all works", allWorksStmt)
}

func (s *Postgres) queryWorks(ctx context.Context, what, stmt string, args ...any) ([]model.Work, error) {
	rows, err := s.db.Pool().Query(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", what)
	}
	defer rows.Close()

	works := []model.Work{}
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", what)
		}
		works = append(works, work)
	}
	return works, rows.Err()
}
