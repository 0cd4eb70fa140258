// Package registry owns the malkhana evidence registers: Black Ink numbering
// at creation, Red Ink renumbering on disposal, and the year transition that
// moves a closed year's filing into the Red Ink register.
package registry

import (
	"log/slog"

	"malkhana/internal/registry/handler"
	"malkhana/internal/registry/service"
)

// Service exposes evidence item lifecycle orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the registry service.
type Handler = handler.Handler

// NewService constructs the registry service with required dependencies.
func NewService(items service.ItemStore, shelves service.ShelfDirectory, opts ...service.Option) *Service {
	return service.New(items, shelves, opts...)
}

// NewHandler constructs an HTTP handler for registry routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
