package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context before writing
// the client-facing error. The internal message and error go to the
// log; only userMsg reaches the client.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) logWith(r *http.Request, internalMsg string, err error) {
	e.log.Error(internalMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}

// LogServerError logs err and writes a 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, internalMsg string, err error, userMsg string) {
	e.logWith(r, internalMsg, err)
	RenderServerError(w, userMsg)
}

// LogBadRequest logs err and writes a 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, internalMsg string, err error, userMsg string) {
	e.logWith(r, internalMsg, err)
	RenderBadRequest(w, userMsg)
}

// LogNotFound logs err and writes a 404 with userMsg.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, internalMsg string, err error, userMsg string) {
	e.logWith(r, internalMsg, err)
	RenderNotFound(w, userMsg)
}
