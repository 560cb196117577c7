package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/3mero/edarh-server/internal/service"
)

func (s *Server) registerShareRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getShare",
		Method:      http.MethodGet,
		Path:        "/api/v1/share",
		Summary:     "Build a WhatsApp share link",
		Description: "Composes a share message for the most recent completion batch",
		Tags:        []string{"Share"},
	}, s.handleGetShare)
}

// ShareOutput wraps the share link for Huma.
type ShareOutput struct {
	Body service.Share
}

func (s *Server) handleGetShare(ctx context.Context, _ *struct{}) (*ShareOutput, error) {
	share, err := s.services.Share.BuildShare(ctx)
	if err != nil {
		return nil, err
	}
	return &ShareOutput{Body: *share}, nil
}
