// Package storage archives finished tournament results so a presentation
// layer can read them back. It never holds live tournament state.
package storage

import (
	"context"

	"colonies/internal/model"
)

// Store defines the result archive operations.
type Store interface {
	Init(ctx context.Context) error
	SaveTournament(ctx context.Context, record model.TournamentRecord) error
	GetTournament(ctx context.Context, runID string) (model.TournamentRecord, bool, error)
	// ListTournaments returns records newest first.
	ListTournaments(ctx context.Context) ([]model.TournamentRecord, error)
	SaveTrajectory(ctx context.Context, runID string, points []model.TrajectoryPoint) error
	GetTrajectory(ctx context.Context, runID string) ([]model.TrajectoryPoint, bool, error)
}
