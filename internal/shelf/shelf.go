// Package shelf is the directory of physical shelves in each unit's malkhana
// room. The registry validates shelf-to-unit ownership against it.
package shelf

import (
	"log/slog"

	"malkhana/internal/shelf/handler"
	"malkhana/internal/shelf/service"
)

// Service exposes the shelf directory.
type Service = service.Service

// Handler wires HTTP endpoints to the shelf service.
type Handler = handler.Handler

// NewService constructs the shelf service.
func NewService(shelves service.ShelfStore, opts ...service.Option) *Service {
	return service.New(shelves, opts...)
}

// NewHandler constructs an HTTP handler for shelf routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
