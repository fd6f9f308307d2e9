package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/clubsphere/internal/app/system/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBackendProbe_RecordsResults(t *testing.T) {
	fail := true
	p := workers.NewBackendProbe(func(context.Context) error {
		if fail {
			return errors.New("connection refused")
		}
		return nil
	}, zap.NewNop(), "@every 1h", time.Second)

	assert.False(t, p.Status().Healthy)
	assert.True(t, p.Status().CheckedAt.IsZero())

	st := p.Check(context.Background())
	assert.False(t, st.Healthy)
	assert.Equal(t, "connection refused", st.Error)
	assert.Equal(t, 1, st.Failures)

	st = p.Check(context.Background())
	assert.Equal(t, 2, st.Failures)

	fail = false
	st = p.Check(context.Background())
	assert.True(t, st.Healthy)
	assert.Zero(t, st.Failures)
	assert.Empty(t, st.Error)
	assert.Equal(t, st, p.Status())
}

func TestBackendProbe_CheckHasDeadline(t *testing.T) {
	p := workers.NewBackendProbe(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		if !ok {
			return errors.New("no deadline")
		}
		return nil
	}, zap.NewNop(), "", 50*time.Millisecond)
	assert.True(t, p.Check(context.Background()).Healthy)
}

func TestBackendProbe_StartChecksImmediately(t *testing.T) {
	calls := make(chan struct{}, 4)
	p := workers.NewBackendProbe(func(context.Context) error {
		calls <- struct{}{}
		return nil
	}, zap.NewNop(), "@every 1h", time.Second)

	require.NoError(t, p.Start())
	t.Cleanup(p.Stop)
	assert.Len(t, calls, 1)
	assert.True(t, p.Status().Healthy)
}

func TestBackendProbe_BadSchedule(t *testing.T) {
	p := workers.NewBackendProbe(func(context.Context) error { return nil }, zap.NewNop(), "not a schedule", time.Second)
	assert.Error(t, p.Start())
}
