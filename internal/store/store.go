// Package store persists users, works and votes. Postgres (pgx) is the
// production backend; SQLite (modernc) backs local development and tests.
// Both run the same SQL statements and compute vote counts on every read.
package store

import (
	"context"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/google/uuid"
)

// Store is the full persistence surface shared by both backends.
type Store interface {
	Migrate(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	FindUserByUID(ctx context.Context, provider, uid string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	CreateWork(ctx context.Context, work model.Work) error
	GetWork(ctx context.Context, id uuid.UUID) (model.Work, error)
	UpdateWork(ctx context.Context, work model.Work) error
	DeleteWork(ctx context.Context, id uuid.UUID) error
	TitleTaken(ctx context.Context, c category.Category, title string, exclude uuid.UUID) (bool, error)
	WorksByOwner(ctx context.Context, userID uuid.UUID) ([]model.Work, error)
	VotedWorks(ctx context.Context, userID uuid.UUID) ([]model.Work, error)

	CastVote(ctx context.Context, vote model.Vote) error
	VotesForWork(ctx context.Context, workID uuid.UUID) ([]model.VoteDetail, error)
	CountVotes(ctx context.Context, workID uuid.UUID) (int, error)

	TopWorks(ctx context.Context, c category.Category, limit int) ([]model.Work, error)
	BestWork(ctx context.Context) (model.Work, error)
	AllWorks(ctx context.Context) ([]model.Work, error)
}

const userColumns = `id, uid, provider, username, email, created_at`

const (
	insertUserStmt = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	getUserStmt    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	findUserStmt   = `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND uid = $2`
	listUsersStmt  = `SELECT ` + userColumns + ` FROM users ORDER BY username`
	deleteUserStmt = `DELETE FROM users WHERE id = $1`
)

// workColumns must stay in step with scanWork.
const workColumns = `w.id, w.title, w.category, w.creator, w.description, w.publication_year,
	w.cover_url, w.user_id, w.created_at, w.updated_at, COUNT(v.id) AS vote_count`

const selectWorks = `SELECT ` + workColumns + ` FROM works w LEFT JOIN votes v ON v.work_id = w.id`

// rankingOrder is the one ordering used by every ranked query: most votes
// first, ties going to the older work and then to the lower id.
const rankingOrder = ` ORDER BY vote_count DESC, w.created_at ASC, w.id ASC`

const (
	insertWorkStmt = `INSERT INTO works (
		id, title, category, creator, description, publication_year, cover_url, user_id, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	getWorkStmt = selectWorks + ` WHERE w.id = $1 GROUP BY w.id`

	updateWorkStmt = `UPDATE works
		SET title = $2, category = $3, creator = $4, description = $5,
			publication_year = $6, cover_url = $7, updated_at = $8
		WHERE id = $1`

	deleteWorkStmt = `DELETE FROM works WHERE id = $1`

	titleTakenStmt = `SELECT EXISTS(
		SELECT 1 FROM works WHERE category = $1 AND title = $2 AND id <> $3
	)`

	worksByOwnerStmt = selectWorks + ` WHERE w.user_id = $1 GROUP BY w.id ORDER BY w.created_at DESC, w.id ASC`

	votedWorksStmt = `SELECT ` + workColumns + `
		FROM works w
		JOIN votes mine ON mine.work_id = w.id AND mine.user_id = $1
		LEFT JOIN votes v ON v.work_id = w.id
		GROUP BY w.id ORDER BY w.title`

	topWorksStmt = selectWorks + ` WHERE w.category = $1 GROUP BY w.id` + rankingOrder + ` LIMIT $2`
	bestWorkStmt = selectWorks + ` GROUP BY w.id` + rankingOrder + ` LIMIT 1`
	allWorksStmt = selectWorks + ` GROUP BY w.id ORDER BY w.category, w.title`
)

const (
	workExistsStmt = `SELECT EXISTS(SELECT 1 FROM works WHERE id = $1)`

	insertVoteStmt = `INSERT INTO votes (id, user_id, work_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, work_id) DO NOTHING`

	votesForWorkStmt = `SELECT v.id, v.user_id, v.work_id, v.created_at, u.username
		FROM votes v
		JOIN users u ON u.id = v.user_id
		WHERE v.work_id = $1
		ORDER BY v.created_at DESC, v.id DESC`

	countVotesStmt = `SELECT COUNT(*) FROM votes WHERE work_id = $1`
)

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.UID, &u.Provider, &u.Username, &u.Email, &u.CreatedAt)
	return u, err
}

func scanWork(row rowScanner) (model.Work, error) {
	var (
		w   model.Work
		cat string
	)
	err := row.Scan(
		&w.ID, &w.Title, &cat, &w.Creator, &w.Description, &w.PublicationYear,
		&w.CoverURL, &w.OwnerUserID, &w.CreatedAt, &w.UpdatedAt, &w.VoteCount,
	)
	w.Category = category.Category(cat)
	return w, err
}

func scanVoteDetail(row rowScanner) (model.VoteDetail, error) {
	var v model.VoteDetail
	err := row.Scan(&v.ID, &v.UserID, &v.WorkID, &v.CreatedAt, &v.Username)
	return v, err
}

func userArgs(u model.User) []any {
	return []any{u.ID, u.UID, u.Provider, u.Username, u.Email, u.CreatedAt.UTC()}
}

func insertWorkArgs(w model.Work) []any {
	return []any{
		w.ID, w.Title, string(w.Category), w.Creator, w.Description, w.PublicationYear,
		w.CoverURL, w.OwnerUserID, w.CreatedAt.UTC(), w.UpdatedAt.UTC(),
	}
}

func updateWorkArgs(w model.Work) []any {
	return []any{
		w.ID, w.Title, string(w.Category), w.Creator, w.Description, w.PublicationYear,
		w.CoverURL, w.UpdatedAt.UTC(),
	}
}
