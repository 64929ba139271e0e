package http

import (
	"errors"

	apperrors "twitch-giveaway-backend/internal/common/errors"
	"twitch-giveaway-backend/internal/features/giveaway/models"
	"twitch-giveaway-backend/internal/features/giveaway/service"
)

// toAppError maps collector service errors onto the HTTP error taxonomy.
func toAppError(err error, req *models.CreateRequest, id string) *apperrors.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	case errors.Is(err, service.ErrChannelBusy):
		return apperrors.NewChannelBusyError(models.NormalizeChannel(req.Channel))
	case errors.Is(err, service.ErrChatJoin):
		return apperrors.NewChatJoinError(models.NormalizeChannel(req.Channel), err)
	case errors.Is(err, service.ErrNotFound):
		return apperrors.NewGiveawayNotFoundError(id)
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
	}
}
