package http

import (
	"context"

	"craneview/internal/filter"
	"craneview/internal/normalize"
	"craneview/internal/services"
	"craneview/internal/views"
	"craneview/pkg/contracts/domain"
)

// AnalysisService is the pipeline surface the handlers depend on.
type AnalysisService interface {
	Load(ctx context.Context, rows []normalize.Row) (*domain.Dataset, error)
	Analyze(ctx context.Context, ds *domain.Dataset, criteria filter.Criteria, view views.View) (*domain.AnalysisResult, error)
	Options(ds *domain.Dataset) services.FilterOptions
}

// Broadcaster pushes update events to connected dashboard clients.
type Broadcaster interface {
	BroadcastDataUpdate(data any)
	BroadcastAnalysisUpdate(view string, data any)
}
