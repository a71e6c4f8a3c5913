package services

import (
	"context"
	"time"

	"eterna_server/database"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

const visitorWriteTimeout = 5 * time.Second

// visitorStore is the pair of database functions behind the counter
type visitorStore interface {
	Increment(ctx context.Context) error
	Stats(ctx context.Context) (*structs.VisitorStats, error)
}

type sqlVisitorStore struct {
	db *database.DB
}

func (s *sqlVisitorStore) Increment(ctx context.Context) error {
	_, err := database.RawExec(ctx, s.db, "SELECT increment_visitor_count()")
	return err
}

func (s *sqlVisitorStore) Stats(ctx context.Context) (*structs.VisitorStats, error) {
	return database.RawQueryOne[structs.VisitorStats](ctx, s.db, "SELECT today_count, total_count FROM get_visitor_stats()")
}

type VisitorService struct {
	logger *gecho.Logger
	store  visitorStore
}

func NewVisitorService(logger *gecho.Logger, db *database.DB) *VisitorService {
	return &VisitorService{
		logger: logger,
		store:  &sqlVisitorStore{db: db},
	}
}

// Increment records a visit without making the caller wait. The write outlives
// the request and its failure is only logged.
func (vs *VisitorService) Increment() <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), visitorWriteTimeout)
		defer cancel()

		if err := vs.store.Increment(ctx); err != nil {
			vs.logger.Error("Failed to increment visitor count", gecho.Field("error", err))
		}
	}()

	return done
}

// GetStats returns today's and the total visit counts; on any failure both are zero
func (vs *VisitorService) GetStats(ctx context.Context) structs.VisitorStats {
	stats, err := vs.store.Stats(ctx)
	if err != nil {
		vs.logger.Warn("Failed to load visitor stats", gecho.Field("error", err))
		return structs.VisitorStats{}
	}
	if stats == nil {
		return structs.VisitorStats{}
	}
	return *stats
}
