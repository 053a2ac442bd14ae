package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFeed_DeliversByKind(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := NewMemoryFeed()

	var jobs, candidates []ChangeEvent
	require.NoError(t, feed.Subscribe(ctx, KindJob, func(ev ChangeEvent) { jobs = append(jobs, ev) }))
	require.NoError(t, feed.Subscribe(ctx, KindCandidate, func(ev ChangeEvent) { candidates = append(candidates, ev) }))

	id := uuid.New()
	require.NoError(t, feed.Publish(ctx, ChangeEvent{Kind: KindJob, ID: id, Op: OpUpdated}))

	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Empty(t, candidates)
}

func TestMemoryFeed_UnsubscribesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := NewMemoryFeed()

	calls := 0
	require.NoError(t, feed.Subscribe(ctx, KindJob, func(ChangeEvent) { calls++ }))
	cancel()

	assert.Eventually(t, func() bool {
		feed.mu.RLock()
		defer feed.mu.RUnlock()
		return len(feed.subs[KindJob]) == 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, feed.Publish(context.Background(), ChangeEvent{Kind: KindJob, ID: uuid.New(), Op: OpDeleted}))
	assert.Equal(t, 0, calls)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("job")
	require.NoError(t, err)
	assert.Equal(t, KindJob, k)

	_, err = ParseKind("company")
	assert.Error(t, err)
}
