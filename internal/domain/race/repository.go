package race

import "context"

// Repository stores stage data per race key.
type Repository interface {
	ListStages(ctx context.Context, raceKey string) ([]Stage, error)
	UpsertStages(ctx context.Context, raceKey string, stages []Stage) error
}
