package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "twitch-giveaway-backend/internal/common/errors"
	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/common/metrics"
	"twitch-giveaway-backend/internal/common/signature"
	"twitch-giveaway-backend/internal/features/settings/models"
)

const maxWebhookBody = 1 << 20

// SettingsService is the orchestrator as seen by the HTTP layer.
type SettingsService interface {
	RegisterIdentity(ctx context.Context, broadcasterID string, req models.IdentityRequest) (*models.Profile, error)
	GetWeights(ctx context.Context, broadcasterID string) (models.Weights, error)
	SaveWeights(ctx context.Context, broadcasterID string, weights models.Weights) error
	Start(ctx context.Context, broadcasterID string, req models.StartRequest) (string, error)
	End(ctx context.Context, broadcasterID, giveawayID string) error
	Status(ctx context.Context, broadcasterID string) (*string, error)
	StopLoop(ctx context.Context, broadcasterID string) error
	HandleGiveawayEnded(ctx context.Context, event models.GiveawayEndedEvent) error
}

type SettingsHandler struct {
	service       SettingsService
	webhookSecret string
}

func NewSettingsHandler(service SettingsService, webhookSecret string) *SettingsHandler {
	return &SettingsHandler{service: service, webhookSecret: webhookSecret}
}

func (h *SettingsHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/webhook", h.webhook)

	broadcasters := router.Group("/api/v1/broadcasters/:broadcaster_id")
	{
		broadcasters.PUT("/identity", h.registerIdentity)
		broadcasters.GET("/weights", h.getWeights)
		broadcasters.PUT("/weights", h.saveWeights)
		broadcasters.POST("/giveaway/start", h.start)
		broadcasters.POST("/giveaway/end", h.end)
		broadcasters.GET("/giveaway/status", h.status)
		broadcasters.POST("/giveaway/stop-loop", h.stopLoop)
	}
}

// @Summary Giveaway conclusion webhook
// @Description Receives giveaway_ended from the collector. Signed with X-Hub-Signature when a secret is shared.
// @Tags orchestrator
// @Accept json
// @Produce json
// @Param X-Hub-Signature header string false "sha256=<hex hmac of raw body>"
// @Param input body models.GiveawayEndedEvent true "Conclusion report"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse "Invalid Signature"
// @Router /webhook [post]
func (h *SettingsHandler) webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		metrics.WebhooksReceived.WithLabelValues("rejected").Inc()
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Failed to read body"))
		return
	}

	if h.webhookSecret != "" {
		if sig := signature.FromRequest(c.Request); sig != "" && !signature.Verify(h.webhookSecret, sig, body) {
			metrics.WebhooksReceived.WithLabelValues("rejected").Inc()
			_ = c.Error(apperrors.NewInvalidSignatureError())
			return
		}
	}

	var event models.GiveawayEndedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhooksReceived.WithLabelValues("rejected").Inc()
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid webhook payload"))
		return
	}

	if event.Type != models.EventGiveawayEnded || event.BroadcasterID == "" {
		metrics.WebhooksReceived.WithLabelValues("ignored").Inc()
		c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
		return
	}

	// Processing outlives the request: the collector may hang up before a
	// loop restart completes.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.service.HandleGiveawayEnded(ctx, event); err != nil {
		logger.Error().Err(err).
			Str("broadcaster_id", event.BroadcasterID).
			Str("giveaway_id", event.GiveawayID).
			Msg("Failed to reconcile giveaway conclusion")
	}

	metrics.WebhooksReceived.WithLabelValues("processed").Inc()
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// @Summary Register broadcaster identity
// @Tags broadcasters
// @Accept json
// @Produce json
// @Param broadcaster_id path string true "Broadcaster ID"
// @Param input body models.IdentityRequest true "Channel login and access token"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /api/v1/broadcasters/{broadcaster_id}/identity [put]
func (h *SettingsHandler) registerIdentity(c *gin.Context) {
	var input models.IdentityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error()))
		return
	}

	broadcasterID := c.Param("broadcaster_id")
	if _, err := h.service.RegisterIdentity(c.Request.Context(), broadcasterID, input); err != nil {
		_ = c.Error(toAppError(err, broadcasterID))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// @Summary Get weight table
// @Tags broadcasters
// @Produce json
// @Param broadcaster_id path string true "Broadcaster ID"
// @Success 200 {object} models.Weights
// @Router /api/v1/broadcasters/{broadcaster_id}/weights [get]
func (h *SettingsHandler) getWeights(c *gin.Context) {
	broadcasterID := c.Param("broadcaster_id")
	weights, err := h.service.GetWeights(c.Request.Context(), broadcasterID)
	if err != nil {
		_ = c.Error(toAppError(err, broadcasterID))
		return
	}
	c.JSON(http.StatusOK, weights)
}

// @Summary Save weight table
// @Tags broadcasters
// @Accept json
// @Produce json
// @Param broadcaster_id path string true "Broadcaster ID"
// @Param input body models.Weights true "Category to multiplier"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /api/v1/broadcasters/{broadcaster_id}/weights [put]
func (h *SettingsHandler) saveWeights(c *gin.Context) {
	var weights models.Weights
	if err := c.ShouldBindJSON(&weights); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error()))
		return
	}

	broadcasterID := c.Param("broadcaster_id")
	if err := h.service.SaveWeights(c.Request.Context(), broadcasterID, weights); err != nil {
		_ = c.Error(toAppError(err, broadcasterID))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// @Summary Start a giveaway
// @Description Saves the configuration and opens a giveaway at the bot service
// @Tags giveaway
// @Accept json
// @Produce json
// @Param broadcaster_id path string true "Broadcaster ID"
// @Param input body models.StartRequest true "Giveaway configuration"
// @Success 200 {object} models.StartResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse "Bot service rejected the request"
// @Failure 503 {object} middleware.ErrorResponse "Bot service is offline"
// @Router /api/v1/broadcasters/{broadcaster_id}/giveaway/start [post]
func (h *SettingsHandler) start(c *gin.Context) {
	var input models.StartRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error()))
		return
	}

	broadcasterID := c.Param("broadcaster_id")
	id, err := h.service.Start(c.Request.Context(), broadcasterID, input)
	if err != nil {
		_ = c.Error(toAppError(err, broadcasterID))
		return
	}
	c.JSON(http.StatusOK, models.StartResponse{Success: true, ID: id})
}

// @Summary End a giveaway early
// @Tags giveaway
// @Accept json
// @Produce json
// @Param broadcaster_id path string true "Broadcaster ID"
// @Param input body models.EndRequest false "Giveaway to end, the active one by default"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/v1/broadcasters/{broadcaster_id}/giveaway/end [post]
func (h *SettingsHandler) end(c *gin.Context) {
	var input models.EndRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error()))
			return
		}
	}

	broadcasterID := c.Param("broadcaster_id")
	if err := h.service.End(c.Request.Context(), broadcasterID, input.GiveawayID); err != nil {
		_ = c.Error(toAppError(err, broadcasterID))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// @Summary Active giveaway
// @Tags giveaway
// @Produce json
// @Param broadcaster_id path string true "Broadcaster ID"
// @Success 200 {object} models.StatusResponse
// @Router /api/v1/broadcasters/{broadcaster_id}/giveaway/status [get]
func (h *SettingsHandler) status(c *gin.Context) {
	broadcasterID := c.Param("broadcaster_id")
	active, err := h.service.Status(c.Request.Context(), broadcasterID)
	if err != nil {
		_ = c.Error(toAppError(err, broadcasterID))
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{ActiveID: active})
}

// @Summary Stop looping
// @Description The running giveaway still concludes; no new one is opened after it
// @Tags giveaway
// @Produce json
// @Param broadcaster_id path string true "Broadcaster ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/v1/broadcasters/{broadcaster_id}/giveaway/stop-loop [post]
func (h *SettingsHandler) stopLoop(c *gin.Context) {
	broadcasterID := c.Param("broadcaster_id")
	if err := h.service.StopLoop(c.Request.Context(), broadcasterID); err != nil {
		_ = c.Error(toAppError(err, broadcasterID))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
