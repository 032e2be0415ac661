package workers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatWorker_RejectsInvalidSchedule(t *testing.T) {
	w := NewChatWorker(nil, nil, "every five minutes")
	assert.Error(t, w.Start(context.Background()))
}

func TestChatWorker_DefaultSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewChatWorker(nil, nil, "")
	assert.Equal(t, "*/5 * * * *", w.schedule)
	assert.NoError(t, w.Start(ctx))
	assert.Len(t, w.cron.Entries(), 1)
}

func TestMaintenanceWorker_Defaults(t *testing.T) {
	w := NewMaintenanceWorker(nil, nil, 5, 0, 0)
	assert.Equal(t, "2h0m0s", w.refreshInterval.String())
	assert.Equal(t, "3h0m0s", w.stuckInterval.String())
}
