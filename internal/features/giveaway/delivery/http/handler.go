package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "twitch-giveaway-backend/internal/common/errors"
	"twitch-giveaway-backend/internal/features/giveaway/models"
)

// GiveawayService is the collector lifecycle as seen by the HTTP layer.
type GiveawayService interface {
	Create(ctx context.Context, req models.CreateRequest) (string, error)
	EndEarly(id string) error
}

type GiveawayHandler struct {
	service GiveawayService
}

func NewGiveawayHandler(service GiveawayService) *GiveawayHandler {
	return &GiveawayHandler{service: service}
}

func (h *GiveawayHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/create", h.create)
	router.POST("/end/:id", h.end)
}

// @Summary Open a giveaway
// @Description Joins the channel, starts collecting entries for the command and arms the countdown
// @Tags collector
// @Accept json
// @Produce json
// @Param input body models.CreateRequest true "Giveaway parameters"
// @Success 200 {object} models.CreateResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 409 {object} middleware.ErrorResponse "Channel already has an open giveaway"
// @Failure 500 {object} middleware.ErrorResponse "Chat join failed"
// @Router /create [post]
func (h *GiveawayHandler) create(c *gin.Context) {
	var input models.CreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error()))
		return
	}

	id, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(toAppError(err, &input, ""))
		return
	}

	c.JSON(http.StatusOK, models.CreateResponse{Success: true, ID: id})
}

// @Summary End a giveaway early
// @Description Concludes the giveaway now; 404 when it already concluded
// @Tags collector
// @Produce json
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.EndResponse
// @Failure 404 {object} middleware.ErrorResponse "not found"
// @Router /end/{id} [post]
func (h *GiveawayHandler) end(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.EndEarly(id); err != nil {
		_ = c.Error(toAppError(err, &models.CreateRequest{}, id))
		return
	}

	c.JSON(http.StatusOK, models.EndResponse{Success: true})
}
