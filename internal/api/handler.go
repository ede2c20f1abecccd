package api

import (
	"go.uber.org/zap"

	"brewery-catalog/internal/detail"
	"brewery-catalog/internal/listing"
	"brewery-catalog/internal/session"
)

// Catalog is the upstream client as seen by the handlers.
type Catalog interface {
	listing.Fetcher
	detail.Getter
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	catalog  Catalog
	sessions *session.Store
	logger   *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(c Catalog, sessions *session.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:  c,
		sessions: sessions,
		logger:   logger,
	}
}

// alertView feeds the shared "alert" template.
type alertView struct {
	Message    string
	DismissURL string
}
