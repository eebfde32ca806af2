package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/errors"
	"github.com/johnquangdev/memory-care/internal/adapter/dto/recording"
	speechdto "github.com/johnquangdev/memory-care/internal/adapter/dto/speech"
	speechUsecase "github.com/johnquangdev/memory-care/internal/usecase/speech"
	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// Speech handles speech-metrics HTTP requests
type Speech struct {
	speechService speechUsecase.Service
	logger        *zap.Logger
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(speechService speechUsecase.Service, logger *zap.Logger) *Speech {
	return &Speech{
		speechService: speechService,
		logger:        logger,
	}
}

// Metrics handles POST /speech/metrics
// @Summary      Calculate speech metrics
// @Description  Computes speech rate, pauses, MLU and TTR for timed words and classifies them
// @Tags         Speech
// @Accept       json
// @Produce      json
// @Param        request  body      speech.MetricsRequest  true  "Timed words"
// @Success      200      {object}  map[string]interface{}  "Metrics and summary"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Router       /speech/metrics [post]
func (h *Speech) Metrics(c echo.Context) error {
	var req speechdto.MetricsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	return HandleSuccess(h.logger, c, h.speechService.Analyze(req.ToWords()))
}

// Summary handles POST /speech/summary
// @Summary      Summarize speech metrics
// @Description  Classifies a metric set into normal, warning, risk or critical. A null body yields a null summary.
// @Tags         Speech
// @Accept       json
// @Produce      json
// @Param        request  body      speechmetrics.Metrics  false  "Metrics"
// @Success      200      {object}  map[string]interface{}  "Summary"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Router       /speech/summary [post]
func (h *Speech) Summary(c echo.Context) error {
	var m *speechmetrics.Metrics
	if err := c.Bind(&m); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	return HandleSuccess(h.logger, c, h.speechService.Summarize(m))
}

// Compare handles POST /speech/compare
// @Summary      Compare metrics with a baseline
// @Description  Evaluates the change of the current metrics against the baseline
// @Tags         Speech
// @Accept       json
// @Produce      json
// @Param        request  body      speech.CompareRequest  true  "Baseline and current metrics"
// @Success      200      {object}  map[string]interface{}  "Change summary"
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Router       /speech/compare [post]
func (h *Speech) Compare(c echo.Context) error {
	var req speechdto.CompareRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	return HandleSuccess(h.logger, c, h.speechService.Compare(req.Baseline, req.Current))
}

// Report handles GET /recordings/:id/report
// @Summary      Recording report
// @Description  Metrics, summary and change against the user's baseline for an analysed recording
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  map[string]interface{}  "Report"
// @Failure      404  {object}  map[string]interface{}  "Recording not found"
// @Failure      409  {object}  map[string]interface{}  "Recording not analysed yet"
// @Router       /recordings/{id}/report [get]
func (h *Speech) Report(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	report, err := h.speechService.Report(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccess(h.logger, c, report)
}

// FHIR handles GET /recordings/:id/fhir
// @Summary      Export recording as FHIR
// @Description  FHIR R4 collection bundle with one Observation per metric
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  map[string]interface{}  "FHIR bundle"
// @Failure      404  {object}  map[string]interface{}  "Recording not found"
// @Router       /recordings/{id}/fhir [get]
func (h *Speech) FHIR(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	bundle, err := h.speechService.Bundle(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccess(h.logger, c, bundle)
}

// Stats handles GET /stats/speech
// @Summary      Speech dashboard
// @Description  Averages and level counts over the last N days (default 30)
// @Tags         Stats
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window in days (max 365)"
// @Success      200   {object}  map[string]interface{}  "Stats"
// @Router       /stats/speech [get]
func (h *Speech) Stats(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req recording.StatsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("days must be a number"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	stats, err := h.speechService.Stats(c.Request().Context(), userID, req.Days)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}
	return HandleSuccess(h.logger, c, stats)
}
