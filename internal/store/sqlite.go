package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied to every pooled connection through the DSN.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"

// SQLite is the modernc-backed Store used for development and tests.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database file at path. Call
// Migrate before use.
func OpenSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&" + sqlitePragmas
	} else {
		dsn += "?" + sqlitePragmas
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY under load.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}

	return &SQLite{
		db:     conn,
		path:   path,
		logger: logger.With(zap.String("component", "store.sqlite")),
	}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Migrate(ctx context.Context) error {
	migrations, err := loadMigrations(dialectSQLite)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin migration tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, createMigrationsTable); err != nil {
		return errors.Wrap(err, "ensure schema_migrations")
	}
	for _, m := range migrations {
		var applied bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&applied); err != nil {
			return errors.Wrapf(err, "check migration %s", m.version)
		}
		if applied {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return errors.Wrapf(err, "apply migration %s", m.version)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			return errors.Wrapf(err, "record migration %s", m.version)
		}
		s.logger.Info("migration applied", zap.String("version", m.version))
	}
	return tx.Commit()
}

func (s *SQLite) CreateUser(ctx context.Context, user model.User) error {
	if _, err := s.db.ExecContext(ctx, insertUserStmt, userArgs(user)...); err != nil {
		return errors.Wrap(translateUnique(err), "creating user")
	}
	return nil
}

func (s *SQLite) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, getUserStmt, id))
	return user, notFound(err, "getting user")
}

func (s *SQLite) FindUserByUID(ctx context.Context, provider, uid string) (model.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, findUserStmt, provider, uid))
	return user, notFound(err, "finding user by uid")
}

func (s *SQLite) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, listUsersStmt)
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

func (s *SQLite) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.execAffecting(ctx, "deleting user", deleteUserStmt, id)
}

func (s *SQLite) CreateWork(ctx context.Context, work model.Work) error {
	if _, err := s.db.ExecContext(ctx, insertWorkStmt, insertWorkArgs(work)...); err != nil {
		return errors.Wrap(translateUnique(err), "creating work")
	}
	return nil
}

func (s *SQLite) GetWork(ctx context.Context, id uuid.UUID) (model.Work, error) {
	work, err := scanWork(s.db.QueryRowContext(ctx, getWorkStmt, id))
	return work, notFound(err, "getting work")
}

func (s *SQLite) UpdateWork(ctx context.Context, work model.Work) error {
	return s.execAffecting(ctx, "updating work", updateWorkStmt, updateWorkArgs(work)...)
}

func (s *SQLite) DeleteWork(ctx context.Context, id uuid.UUID) error {
	return s.execAffecting(ctx, "deleting work", deleteWorkStmt, id)
}

func (s *SQLite) TitleTaken(ctx context.Context, c category.Category, title string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, titleTakenStmt, string(c), title, exclude).Scan(&taken)
	if err != nil {
		return false, errors.Wrap(err, "checking title")
	}
	return taken, nil
}

func (s *SQLite) WorksByOwner(ctx context.Context, userID uuid.UUID) ([]model.Work, error) {
	return s.queryWorks(ctx, "works by owner", worksByOwnerStmt, userID)
}

func (s *SQLite) VotedWorks(ctx context.Context, userID uuid.UUID) ([]model.Work, error) {
	return s.queryWorks(ctx, "voted works", votedWorksStmt, userID)
}

func (s *SQLite) CastVote(ctx context.Context, vote model.Vote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin vote tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists bool
	if err := tx.QueryRowContext(ctx, workExistsStmt, vote.WorkID).Scan(&exists); err != nil {
		return errors.Wrap(err, "checking work")
	}
	if !exists {
		return model.ErrNotFound
	}

	result, err := tx.ExecContext(ctx, insertVoteStmt, vote.ID, vote.UserID, vote.WorkID, vote.CreatedAt.UTC())
	if err != nil {
		return errors.Wrap(err, "inserting vote")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "inserting vote")
	}
	if affected == 0 {
		return model.ErrAlreadyVoted
	}
	return tx.Commit()
}

func (s *SQLite) VotesForWork(ctx context.Context, workID uuid.UUID) ([]model.VoteDetail, error) {
	rows, err := s.db.QueryContext(ctx, votesForWorkStmt, workID)
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

func (s *SQLite) CountVotes(ctx context.Context, workID uuid.UUID) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, countVotesStmt, workID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting votes")
	}
	return count, nil
}

func (s *SQLite) TopWorks(ctx context.Context, c category.Category, limit int) ([]model.Work, error) {
	return s.queryWorks(ctx, "top works", topWorksStmt, string(c), limit)
}

func (s *SQLite) BestWork(ctx context.Context) (model.Work, error) {
	work, err := scanWork(s.db.QueryRowContext(ctx, bestWorkStmt))
	return work, notFound(err, "getting best work")
}

func (s *SQLite) AllWorks(ctx context.Context) ([]model.Work, error) {
	return s.queryWorks(ctx, "all works", allWorksStmt)
}

func (s *SQLite) queryWorks(ctx context.Context, what, stmt string, args ...any) ([]model.Work, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
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

func (s *SQLite) execAffecting(ctx context.Context, what, stmt string, args ...any) error {
	result, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return errors.Wrap(translateUnique(err), what)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, what)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}
