package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	before  time.Time
	removed int
	err     error
}

func (f *fakePruner) Prune(_ context.Context, before time.Time) (int, error) {
	f.before = before
	return f.removed, f.err
}

type fakeGauge struct {
	calls atomic.Int32
	err   error
}

func (f *fakeGauge) RefreshStaleGauge(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestValidateSpec(t *testing.T) {
	assert.NoError(t, ValidateSpec("5 0 * * *"))
	assert.NoError(t, ValidateSpec("*/1 * * * *"))
	assert.NoError(t, ValidateSpec("@every 30s"))
	assert.Error(t, ValidateSpec("every day"))
	assert.Error(t, ValidateSpec(""))
}

func TestStart_RegistersConfiguredJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(Specs{CounterPrune: "5 0 * * *", StaleGauge: "*/1 * * * *"}, &fakePruner{}, &fakeGauge{}, zerolog.Nop())
	require.NoError(t, s.Start(ctx))
	defer s.Stop()
	assert.Equal(t, 2, s.Jobs())
}

func TestStart_SkipsMissingDependencies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(Specs{CounterPrune: "5 0 * * *", StaleGauge: "*/1 * * * *"}, nil, &fakeGauge{}, zerolog.Nop())
	require.NoError(t, s.Start(ctx))
	defer s.Stop()
	assert.Equal(t, 1, s.Jobs())
}

func TestStart_RejectsBadSpec(t *testing.T) {
	s := New(Specs{CounterPrune: "not a spec"}, &fakePruner{}, nil, zerolog.Nop())
	assert.Error(t, s.Start(context.Background()))
}

func TestPruneCounters_UsesCurrentUTCDay(t *testing.T) {
	p := &fakePruner{removed: 3}
	s := New(Specs{}, p, nil, zerolog.Nop())
	fixed := time.Date(2024, 7, 1, 0, 5, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	assert.Equal(t, 3, s.PruneCounters(context.Background()))
	assert.Equal(t, fixed, p.before)
}

func TestPruneCounters_SwallowsErrors(t *testing.T) {
	p := &fakePruner{removed: 3, err: errors.New("db down")}
	s := New(Specs{}, p, nil, zerolog.Nop())

	assert.Equal(t, 0, s.PruneCounters(context.Background()))
}

func TestRefreshGauge_SwallowsErrors(t *testing.T) {
	g := &fakeGauge{err: errors.New("db down")}
	s := New(Specs{}, nil, g, zerolog.Nop())
	s.RefreshGauge(context.Background())
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestStart_RunsEverySecondJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &fakeGauge{}
	s := New(Specs{StaleGauge: "@every 1s"}, nil, g, zerolog.Nop())
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.Eventually(t, func() bool { return g.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
