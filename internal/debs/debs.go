package deps

import (
	"context"
	"io"

	"github.com/bwise1/media_ranker/config"
	"github.com/bwise1/media_ranker/internal/auth"
	"github.com/bwise1/media_ranker/internal/db"
	"github.com/bwise1/media_ranker/internal/ranking"
	"github.com/bwise1/media_ranker/internal/store"
	"github.com/bwise1/media_ranker/internal/works"
	"github.com/bwise1/media_ranker/util/storage"
	"github.com/bwise1/media_ranker/util/websockets"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CoverUploader stores a cover image and returns its public URL.
type CoverUploader interface {
	UploadCover(ctx context.Context, file io.Reader, publicID string) (string, error)
}

type Dependencies struct {
	Store     store.Store
	Works     *works.Service
	Ranking   *ranking.Engine
	Auth      *auth.Service
	Providers map[string]auth.Provider
	Covers    CoverUploader
	WebSocket *websockets.WebSocketManager
	Logger    *zap.Logger
}

// New opens the configured store and wires every service on top of it.
func New(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	st, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	d := Wire(cfg, st, logger)

	cloudinary, err := storage.NewCloudinary(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if cloudinary != nil {
		d.Covers = cloudinary
	} else {
		logger.Info("cloudinary not configured, cover uploads disabled")
	}
	return d, nil
}

// OpenStore connects to the backend named by cfg.DBDriver.
func OpenStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return store.OpenSQLite(cfg.Dsn, logger)
	case config.DriverPostgres:
		database, err := db.New(cfg.Dsn, logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to database")
		}
		return store.NewPostgres(database, logger), nil
	default:
		return nil, errors.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// Wire builds the services over an open store. Covers is left unset.
func Wire(cfg *config.Config, st store.Store, logger *zap.Logger) *Dependencies {
	if logger == nil {
		logger = zap.NewNop()
	}
	websocket := websockets.NewWebSocketManager(logger)
	tokens := auth.NewTokenIssuer(cfg.JwtSecret, cfg.JwtExpires)

	return &Dependencies{
		Store:   st,
		Works:   works.NewService(st, websocket, logger),
		Ranking: ranking.NewEngine(st, cfg.TopLimit),
		Auth:    auth.NewService(st, tokens, logger),
		Providers: auth.Providers(
			auth.ProviderConfig{ClientID: cfg.GithubClientID, ClientSecret: cfg.GithubClientSecret, RedirectURL: cfg.GithubRedirectURL},
			auth.ProviderConfig{ClientID: cfg.GoogleClientID, ClientSecret: cfg.GoogleClientSecret, RedirectURL: cfg.GoogleRedirectURL},
		),
		WebSocket: websocket,
		Logger:    logger,
	}
}

func (d *Dependencies) Close() error {
	return d.Store.Close()
}
