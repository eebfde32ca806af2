package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/errors"
	"github.com/johnquangdev/memory-care/internal/infrastructure/http/middleware"
	ucErrors "github.com/johnquangdev/memory-care/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessStatus is HandleSuccess with an explicit HTTP status
func HandleSuccessStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			log := logger.Warn
			if appErr.HTTPCode >= http.StatusInternalServerError {
				log = logger.Error
			}
			log("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.String("app_code", appErr.Code.String()),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil && appErr.HTTPCode < http.StatusInternalServerError {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// toAppError maps usecase sentinels to API errors. Unknown errors become
// internal errors.
func toAppError(err error, recordingID string) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, ucErrors.ErrRecordingNotFound):
		return errors.ErrRecordingNotFound(recordingID)
	case stdErrors.Is(err, ucErrors.ErrRecordingNotAnalyzed):
		return errors.ErrRecordingNotAnalyzed(recordingID)
	case stdErrors.Is(err, ucErrors.ErrInvalidTaskType):
		return errors.ErrInvalidTaskType("")
	case stdErrors.Is(err, ucErrors.ErrUnsupportedAudio):
		return errors.ErrUnsupportedAudio("")
	case stdErrors.Is(err, ucErrors.ErrEmptyAudio):
		return errors.ErrInvalidArgument("audio file is empty")
	case stdErrors.Is(err, ucErrors.ErrAudioStoreFailed):
		return errors.ErrRecordingUploadFailed(err)
	case stdErrors.Is(err, ucErrors.ErrTranscriptFetch):
		return errors.ErrAITranscriptionFailed(err)
	case stdErrors.Is(err, ucErrors.ErrInvalidSignature):
		return errors.ErrInvalidWebhook(err)
	case stdErrors.Is(err, ucErrors.ErrJobNotFound):
		return errors.ErrNotFound("analysis job")
	case stdErrors.Is(err, ucErrors.ErrTranscriberMissing):
		return errors.ErrAIServiceUnavailable("assemblyai")
	case stdErrors.Is(err, ucErrors.ErrInvalidInput):
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusBadRequest,
			Code:     errors.ErrorCode_INVALID_PAYLOAD,
			Message:  "Invalid payload",
		}
	}
	return errors.ErrInternal(err)
}

// currentUser reads the user id set by the auth middleware
func currentUser(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, errors.ErrUnauthenticated()
	}
	return id, nil
}

// pathID parses the :id path parameter
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("id must be a valid UUID")
	}
	return id, nil
}

// HTTPErrorHandler renders errors returned by handlers and middleware with
// the same envelope as HandleError
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			code := errors.ErrorCode_INVALID_ARGUMENT
			switch he.Code {
			case http.StatusNotFound:
				code = errors.ErrorCode_NOT_FOUND
			case http.StatusUnauthorized:
				code = errors.ErrorCode_UNAUTHENTICATED
			case http.StatusForbidden:
				code = errors.ErrorCode_FORBIDDEN
			case http.StatusRequestEntityTooLarge:
				code = errors.ErrorCode_INVALID_PAYLOAD
			}
			if he.Code >= http.StatusInternalServerError {
				code = errors.ErrorCode_INTERNAL
			}
			err = errors.AppError{
				HTTPCode: he.Code,
				Code:     code,
				Message:  http.StatusText(he.Code),
			}
		}

		if writeErr := HandleError(logger, c, err); writeErr != nil && logger != nil {
			logger.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}
