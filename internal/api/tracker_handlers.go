package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/service"
)

func (s *Server) registerTrackerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTracker",
		Method:      http.MethodGet,
		Path:        "/api/v1/tracker",
		Summary:     "Get tracker state",
		Description: "Returns the active mode's item list and statistics",
		Tags:        []string{"Tracker"},
	}, s.handleGetTracker)

	huma.Register(s.api, huma.Operation{
		OperationID: "setMode",
		Method:      http.MethodPut,
		Path:        "/api/v1/tracker/mode",
		Summary:     "Switch tracking mode",
		Tags:        []string{"Tracker"},
	}, s.handleSetMode)

	huma.Register(s.api, huma.Operation{
		OperationID: "generateList",
		Method:      http.MethodPost,
		Path:        "/api/v1/tracker/generate",
		Summary:     "Generate a fresh list",
		Description: "Replaces the active mode's list with a new numbered sequence",
		Tags:        []string{"Tracker"},
	}, s.handleGenerate)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeBatch",
		Method:      http.MethodPost,
		Path:        "/api/v1/tracker/complete",
		Summary:     "Complete a batch of items",
		Tags:        []string{"Tracker"},
	}, s.handleCompleteBatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "undoBatch",
		Method:      http.MethodPost,
		Path:        "/api/v1/tracker/undo",
		Summary:     "Undo completed items",
		Tags:        []string{"Tracker"},
	}, s.handleUndoBatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPut,
		Path:        "/api/v1/tracker/items/{number}",
		Summary:     "Update one item",
		Description: "Edits an item's note, color, day, or visibility",
		Tags:        []string{"Tracker"},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/tracker/stats",
		Summary:     "Get completion statistics",
		Tags:        []string{"Tracker"},
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "resetTracker",
		Method:      http.MethodPost,
		Path:        "/api/v1/tracker/reset",
		Summary:     "Reset the active list",
		Description: "Restores the default list and removes all attached media",
		Tags:        []string{"Tracker"},
	}, s.handleReset)
}

// === DTOs ===

// SnapshotOutput wraps the tracker snapshot for Huma.
type SnapshotOutput struct {
	Body service.Snapshot
}

type SetModeInput struct {
	Body struct {
		Mode string `json:"mode" enum:"hizb,juz" doc:"Tracking mode"`
	}
}

type GenerateInput struct {
	Body struct {
		From     int    `json:"from" minimum:"1" doc:"First item number" validate:"required,gte=1"`
		To       int    `json:"to" minimum:"1" doc:"Last item number (inclusive)" validate:"required,gtefield=From"`
		FirstDay string `json:"firstDay" doc:"Arabic day name the schedule starts on" validate:"required"`
	}
}

type CompleteBatchInput struct {
	Body struct {
		StartNumber int `json:"startNumber" minimum:"1" doc:"First item of the batch"`
		Count       int `json:"count" minimum:"1" doc:"How many consecutive items to complete"`
	}
}

type UndoBatchInput struct {
	Body struct {
		Numbers []int `json:"numbers" minItems:"1" doc:"Item numbers to revert to pending"`
	}
}

type UpdateItemInput struct {
	Number int `path:"number" minimum:"1" doc:"Item number"`
	Body   struct {
		Day    string `json:"day,omitempty" doc:"Arabic day name; empty keeps the current day"`
		Note   string `json:"note,omitempty" maxLength:"2000"`
		Color  string `json:"color,omitempty" doc:"Display color, e.g. #1e1e2f"`
		Hidden bool   `json:"hidden,omitempty"`
	}
}

// StatsOutput wraps completion statistics for Huma.
type StatsOutput struct {
	Body domain.Stats
}

// === Handlers ===

func (s *Server) handleGetTracker(ctx context.Context, _ *struct{}) (*SnapshotOutput, error) {
	snap, err := s.services.Tracker.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &SnapshotOutput{Body: *snap}, nil
}

func (s *Server) handleSetMode(ctx context.Context, input *SetModeInput) (*SnapshotOutput, error) {
	snap, err := s.services.Tracker.SetMode(ctx, domain.Mode(input.Body.Mode))
	if err != nil {
		return nil, err
	}
	return &SnapshotOutput{Body: *snap}, nil
}

func (s *Server) handleGenerate(ctx context.Context, input *GenerateInput) (*SnapshotOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}
	snap, err := s.services.Tracker.Generate(ctx, input.Body.From, input.Body.To, input.Body.FirstDay)
	if err != nil {
		return nil, err
	}
	return &SnapshotOutput{Body: *snap}, nil
}

func (s *Server) handleCompleteBatch(ctx context.Context, input *CompleteBatchInput) (*SnapshotOutput, error) {
	snap, err := s.services.Tracker.CompleteBatch(ctx, input.Body.StartNumber, input.Body.Count)
	if err != nil {
		return nil, err
	}
	return &SnapshotOutput{Body: *snap}, nil
}

func (s *Server) handleUndoBatch(ctx context.Context, input *UndoBatchInput) (*SnapshotOutput, error) {
	snap, err := s.services.Tracker.UndoBatch(ctx, input.Body.Numbers)
	if err != nil {
		return nil, err
	}
	return &SnapshotOutput{Body: *snap}, nil
}

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*SnapshotOutput, error) {
	snap, err := s.services.Tracker.UpdateItem(ctx, domain.Item{
		Number: input.Number,
		Day:    input.Body.Day,
		Note:   input.Body.Note,
		Color:  input.Body.Color,
		Hidden: input.Body.Hidden,
	})
	if err != nil {
		return nil, err
	}
	return &SnapshotOutput{Body: *snap}, nil
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.services.Tracker.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}

func (s *Server) handleReset(ctx context.Context, _ *struct{}) (*SnapshotOutput, error) {
	snap, err := s.services.Tracker.Reset(ctx)
	if err != nil {
		return nil, err
	}
	return &SnapshotOutput{Body: *snap}, nil
}
