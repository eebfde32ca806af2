package errors

// ErrorCode là mã lỗi trả về cho client
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005
	ErrorCode_FORBIDDEN        ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1007

	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	ErrorCode_RECORDING_NOT_FOUND        ErrorCode = 3000
	ErrorCode_RECORDING_UPLOAD_FAILED    ErrorCode = 3001
	ErrorCode_RECORDING_INVALID_TASK     ErrorCode = 3002
	ErrorCode_RECORDING_NOT_ANALYZED     ErrorCode = 3003
	ErrorCode_RECORDING_UNSUPPORTED_TYPE ErrorCode = 3004

	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 4000
	ErrorCode_AI_SERVICE_UNAVAILABLE  ErrorCode = 4001
	ErrorCode_AI_WEBHOOK_INVALID      ErrorCode = 4002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_RECORDING_NOT_FOUND:        "RECORDING_NOT_FOUND",
	ErrorCode_RECORDING_UPLOAD_FAILED:    "RECORDING_UPLOAD_FAILED",
	ErrorCode_RECORDING_INVALID_TASK:     "RECORDING_INVALID_TASK",
	ErrorCode_RECORDING_NOT_ANALYZED:     "RECORDING_NOT_ANALYZED",
	ErrorCode_RECORDING_UNSUPPORTED_TYPE: "RECORDING_UNSUPPORTED_TYPE",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
	ErrorCode_AI_WEBHOOK_INVALID:         "AI_WEBHOOK_INVALID",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
