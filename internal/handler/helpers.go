package handler

import (
	"net/http"
	"transferwiki/internal/middleware"
	"transferwiki/internal/service"
)

// actorFrom builds the service-layer actor from the request context.
// Anonymous requests yield nil, which the services reject before any
// authorization branch is evaluated.
func actorFrom(r *http.Request) *service.Actor {
	userInfo := middleware.GetUserInfo(r.Context())
	if userInfo.Anonymous() {
		return nil
	}
	return &service.Actor{ID: userInfo.Subject, Role: userInfo.Role}
}

// appError translates a service error kind into an HTTP status.
func appError(err error, msg string) *middleware.AppError {
	code := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindNotFound:
		code = http.StatusNotFound
	case service.KindValidation:
		code = http.StatusBadRequest
	case service.KindForbidden:
		code = http.StatusForbidden
	case service.KindConflict:
		code = http.StatusConflict
	}
	return &middleware.AppError{Error: err, Message: msg, Code: code}
}
