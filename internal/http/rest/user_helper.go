package rest

import (
	"context"
	"errors"

	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (api *API) ListUsersHelper(ctx context.Context) ([]model.User, string, string, error) {
	users, err := api.Deps.Store.ListUsers(ctx)
	if err != nil {
		return nil, values.Error, "Failed to fetch users", err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, values.Success, "Users fetched successfully", nil
}

func (api *API) GetUserProfileHelper(ctx context.Context, id uuid.UUID) (model.UserProfile, string, string, error) {
	user, err := api.Deps.Store.GetUser(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.UserProfile{}, values.NotFound, "User not found", err
	}
	if err != nil {
		return model.UserProfile{}, values.Error, "Failed to fetch user", err
	}

	owned, err := api.Deps.Store.WorksByOwner(ctx, id)
	if err != nil {
		return model.UserProfile{}, values.Error, "Failed to fetch user's works", err
	}
	voted, err := api.Deps.Store.VotedWorks(ctx, id)
	if err != nil {
		return model.UserProfile{}, values.Error, "Failed to fetch user's votes", err
	}
	if owned == nil {
		owned = []model.Work{}
	}
	if voted == nil {
		voted = []model.Work{}
	}

	return model.UserProfile{User: user, Works: owned, VotedWorks: voted}, values.Success, "User profile retrieved successfully", nil
}

func (api *API) DeleteAccountHelper(ctx context.Context, id uuid.UUID) (string, string, error) {
	if err := api.Deps.Store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return values.NotFound, "User not found", err
		}
		return values.Error, "Failed to delete account", err
	}
	api.logger().Info("account deleted", zap.String("user_id", id.String()))
	return values.Success, "Account deleted successfully", nil
}
