package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-summarizer/internal/observability/metrics"
)

type countingPurgeable struct {
	calls int
}

func (c *countingPurgeable) Purge() int {
	c.calls++
	return 1
}

func (c *countingPurgeable) Len() int { return 7 }

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{schedule: "*/5 * * * *"},
		{schedule: "0 3 * * *"},
		{schedule: "@every 1m"},
		{schedule: "not a schedule", wantErr: true},
		{schedule: "* * * * * *", wantErr: true},
		{schedule: "61 * * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewPurger(t *testing.T) {
	target := &countingPurgeable{}

	p, err := NewPurger(target, "")
	require.NoError(t, err)
	assert.Len(t, p.cron.Entries(), 1)

	_, err = NewPurger(target, "bogus")
	assert.Error(t, err)
}

func TestPurger_RunOnce(t *testing.T) {
	target := &countingPurgeable{}
	p, err := NewPurger(target, DefaultPurgeSchedule)
	require.NoError(t, err)
	before := testutil.ToFloat64(metrics.SummaryCacheExpiredTotal)

	p.RunOnce()

	assert.Equal(t, 1, target.calls)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SummaryCacheExpiredTotal))
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.SummaryCacheEntries))
}

func TestPurger_StartStop(t *testing.T) {
	c := New[string, int](4, 20*time.Millisecond)
	c.Set("a", 1)
	require.Eventually(t, func() bool { return c.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	p, err := NewPurger(c, "@every 1h")
	require.NoError(t, err)

	p.Start()
	p.Start()
	p.RunOnce()
	p.Stop()
	p.Stop()

	assert.Equal(t, 0, c.Purge(), "expiration collected by RunOnce")
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.SummaryCacheEntries))
}
