package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/duckbin/internal/snippet"
	"go.uber.org/zap"
)

// errorMapper turns domain errors into huma status errors.
type errorMapper struct {
	exposeInternal bool
	logger         *zap.Logger
}

// toHTTP maps err for the failed action, e.g. "create snippet".
func (m errorMapper) toHTTP(err error, action string) error {
	var verr *snippet.ValidationError

	switch {
	case errors.As(err, &verr):
		return huma.Error400BadRequest(verr.Message, &huma.ErrorDetail{
			Message:  verr.Message,
			Location: location(verr.Field),
		})
	case errors.Is(err, snippet.ErrNotFound):
		return huma.Error404NotFound("snippet not found")
	}

	return m.internal(err, action)
}

func (m errorMapper) internal(err error, action string) error {
	m.logger.Error("failed to "+action, zap.Error(err))

	if m.exposeInternal {
		return huma.Error500InternalServerError("failed to "+action, err)
	}

	return huma.Error500InternalServerError("failed to " + action)
}

func location(field string) string {
	switch field {
	case "":
		return "body"
	case "slug":
		return "path.slug"
	default:
		return "body." + field
	}
}
