package middleware

import (
	"fmt"
	"net/http"
	"transferwiki/internal/logger"
	"transferwiki/internal/view"
)

// AppError represents a handler failure with a user-facing message and
// HTTP status.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a handler function that returns an AppError instead of
// writing error responses itself.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors and panics into
// rendered error pages.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, v, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if err := next(w, r); err != nil {
				log.Error(err.Error, err.Message)
				renderError(w, v, err.Code, err.Message)
			}
		})
	}
}

func renderError(w http.ResponseWriter, v *view.View, code int, text string) {
	w.WriteHeader(code)
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": text,
	}
	if err := v.Render(w, "error.html", data); err != nil {
		fmt.Fprintln(w, text)
	}
}
