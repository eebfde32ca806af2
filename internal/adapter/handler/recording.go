package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/errors"
	"github.com/johnquangdev/memory-care/internal/adapter/dto/common"
	"github.com/johnquangdev/memory-care/internal/adapter/dto/recording"
	"github.com/johnquangdev/memory-care/internal/adapter/presenter"
	recordingUsecase "github.com/johnquangdev/memory-care/internal/usecase/recording"
)

// Recording handles speech recording HTTP requests
type Recording struct {
	recordingService recordingUsecase.Service
	logger           *zap.Logger
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(recordingService recordingUsecase.Service, logger *zap.Logger) *Recording {
	return &Recording{
		recordingService: recordingService,
		logger:           logger,
	}
}

// Upload handles POST /recordings
// @Summary      Upload a speech recording
// @Description  Stores the audio and queues it for transcription and analysis
// @Tags         Recordings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio        formData  file    true   "Audio file"
// @Param        task_type    formData  string  true   "photo, script or conversation"
// @Param        recorded_at  formData  string  false  "RFC3339 time the sample was recorded"
// @Success      201          {object}  recording.RecordingResponse  "Recording created"
// @Failure      400          {object}  map[string]interface{}  "Invalid request"
// @Failure      415          {object}  map[string]interface{}  "Unsupported audio format"
// @Router       /recordings [post]
func (h *Recording) Upload(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio file is required"))
	}

	var recordedAt *time.Time
	if raw := c.FormValue("recorded_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("recorded_at must be RFC3339"))
		}
		recordedAt = &t
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer file.Close()

	rec, err := h.recordingService.Upload(c.Request().Context(), recordingUsecase.UploadInput{
		UserID:      userID,
		TaskType:    c.FormValue("task_type"),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		Reader:      file,
		RecordedAt:  recordedAt,
	})
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}

	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToRecordingResponse(rec))
}

// List handles GET /recordings
// @Summary      List recordings
// @Description  Recordings of the current user, newest first
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        task_type  query     string  false  "Filter by task type"
// @Param        status     query     string  false  "Filter by status"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        page_size  query     int     false  "Items per page (default 20, max 100)"
// @Success      200        {object}  recording.RecordingListResponse  "Recordings"
// @Router       /recordings [get]
func (h *Recording) List(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	req := recording.ListRecordingsRequest{Page: 1, PageSize: 20}
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	recs, total, err := h.recordingService.List(c.Request().Context(), userID, recordingUsecase.ListInput{
		TaskType: req.TaskType,
		Status:   req.Status,
		Limit:    req.PageSize,
		Offset:   (req.Page - 1) * req.PageSize,
	})
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, ""))
	}

	return HandleSuccess(h.logger, c, presenter.ToRecordingListResponse(recs, total, req.Page, req.PageSize))
}

// Get handles GET /recordings/:id
// @Summary      Get recording
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  recording.RecordingResponse  "Recording"
// @Failure      404  {object}  map[string]interface{}  "Recording not found"
// @Router       /recordings/{id} [get]
func (h *Recording) Get(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	rec, err := h.recordingService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccess(h.logger, c, presenter.ToRecordingResponse(rec))
}

// SetBaseline handles PUT /recordings/:id/baseline
// @Summary      Set baseline recording
// @Description  Makes an analysed recording the user's only baseline
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  recording.RecordingResponse  "Baseline recording"
// @Failure      404  {object}  map[string]interface{}  "Recording not found"
// @Failure      409  {object}  map[string]interface{}  "Recording not analysed yet"
// @Router       /recordings/{id}/baseline [put]
func (h *Recording) SetBaseline(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	rec, err := h.recordingService.SetBaseline(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccess(h.logger, c, presenter.ToRecordingResponse(rec))
}

// Delete handles DELETE /recordings/:id
// @Summary      Delete recording
// @Tags         Recordings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recording ID (UUID)"
// @Success      200  {object}  common.StatusResponse  "Deleted"
// @Failure      404  {object}  map[string]interface{}  "Recording not found"
// @Router       /recordings/{id} [delete]
func (h *Recording) Delete(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.recordingService.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, toAppError(err, id.String()))
	}
	return HandleSuccess(h.logger, c, common.StatusResponse{Status: "deleted"})
}
