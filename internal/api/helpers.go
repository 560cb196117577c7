package api

import (
	"context"
	"fmt"
)

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation message for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func messageOutput(format string, args ...any) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: fmt.Sprintf(format, args...)}}
}

// ownerKeyFor resolves the media owner key for an item number in the active
// mode, e.g. "hizb_12".
func (s *Server) ownerKeyFor(ctx context.Context, number int) (string, error) {
	mode, err := s.store.GetMode(ctx)
	if err != nil {
		return "", err
	}
	return mode.OwnerKey(number), nil
}
