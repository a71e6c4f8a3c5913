package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"eterna_server/config"
	"eterna_server/structs"

	"github.com/stretchr/testify/require"
)

type stubVisitorStore struct {
	increments atomic.Int32
	stats      *structs.VisitorStats
	err        error
}

func (s *stubVisitorStore) Increment(ctx context.Context) error {
	s.increments.Add(1)
	return s.err
}

func (s *stubVisitorStore) Stats(ctx context.Context) (*structs.VisitorStats, error) {
	return s.stats, s.err
}

func TestVisitorIncrementRunsDetached(t *testing.T) {
	store := &stubVisitorStore{err: errors.New("database down")}
	vs := &VisitorService{logger: config.NewLogger(false), store: store}

	select {
	case <-vs.Increment():
	case <-time.After(time.Second):
		t.Fatal("increment did not finish")
	}
	require.Equal(t, int32(1), store.increments.Load())
}

func TestVisitorStatsFallBackToZero(t *testing.T) {
	vs := &VisitorService{
		logger: config.NewLogger(false),
		store:  &stubVisitorStore{err: errors.New("function missing")},
	}
	require.Equal(t, structs.VisitorStats{}, vs.GetStats(context.Background()))

	vs.store = &stubVisitorStore{stats: &structs.VisitorStats{TodayCount: 4, TotalCount: 120}}
	require.Equal(t, structs.VisitorStats{TodayCount: 4, TotalCount: 120}, vs.GetStats(context.Background()))
}
