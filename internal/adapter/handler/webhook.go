package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/errors"
	"github.com/johnquangdev/memory-care/internal/adapter/dto/common"
	recordingUsecase "github.com/johnquangdev/memory-care/internal/usecase/recording"
	"github.com/johnquangdev/memory-care/pkg/ai"
)

const maxWebhookBody = 1 << 20

// WebhookHandler handles incoming webhooks from the transcription provider
type WebhookHandler struct {
	recordingService recordingUsecase.Service
	logger           *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(recordingService recordingUsecase.Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{recordingService: recordingService, logger: logger}
}

// HandleAssemblyAIWebhook receives transcript status callbacks
// @Summary      AssemblyAI webhook
// @Description  Receives transcript status callbacks authenticated by a shared header token
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  common.StatusResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /webhooks/assemblyai [post]
func (h *WebhookHandler) HandleAssemblyAIWebhook(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	token := c.Request().Header.Get(ai.WebhookAuthHeader)
	if err := h.recordingService.HandleWebhook(c.Request().Context(), body, token); err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}
	return HandleSuccess(h.logger, c, common.StatusResponse{Status: "ok"})
}
