package http

import (
	"errors"

	apperrors "twitch-giveaway-backend/internal/common/errors"
	"twitch-giveaway-backend/internal/features/settings/collector"
	"twitch-giveaway-backend/internal/features/settings/repository"
	"twitch-giveaway-backend/internal/features/settings/service"
)

func toAppError(err error, broadcasterID string) *apperrors.AppError {
	var apiErr *collector.APIError
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNoChannel):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	case errors.Is(err, repository.ErrProfileNotFound):
		return apperrors.NewBroadcasterNotFoundError(broadcasterID)
	case errors.Is(err, service.ErrNoActiveGiveaway):
		return apperrors.NewNotFoundError("active giveaway", broadcasterID)
	case errors.Is(err, collector.ErrNotFound):
		return apperrors.NewGiveawayNotFoundError("")
	case errors.Is(err, collector.ErrUnavailable):
		return apperrors.NewServiceUnavailableError("Bot service", err)
	case errors.As(err, &apiErr):
		return apperrors.NewExternalAPIError("Bot service", err).WithDetail("upstream_error", apiErr.Message)
	case errors.Is(err, repository.ErrConflict):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, "Profile was modified concurrently")
	case errors.Is(err, repository.ErrStorage):
		return apperrors.NewStorageError("broadcaster profile", err)
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
	}
}
