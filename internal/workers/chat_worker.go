package workers

import (
	"context"
	"time"

	"outbound_backend/internal/logger"
	"outbound_backend/internal/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const chatRunTimeout = time.Minute

// ChatWorker closes idle support conversations on a cron schedule.
type ChatWorker struct {
	db          *gorm.DB
	chatService services.ChatService
	schedule    string
	cron        *cron.Cron
}

func NewChatWorker(db *gorm.DB, chatService services.ChatService, schedule string) *ChatWorker {
	if schedule == "" {
		schedule = "*/5 * * * *"
	}
	return &ChatWorker{
		db:          db,
		chatService: chatService,
		schedule:    schedule,
		cron:        cron.New(),
	}
}

// Start registers the job and stops the scheduler when ctx is done.
func (w *ChatWorker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	logger.Info("Chat auto-close scheduled", "schedule", w.schedule)

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		logger.Info("Chat worker stopped")
	}()
	return nil
}

// RunOnce runs a single auto-close pass. Failures are logged; the next run retries.
func (w *ChatWorker) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, chatRunTimeout)
	defer cancel()

	closed, err := w.chatService.AutoCloseStale(runCtx, w.db.WithContext(runCtx))
	logger.WorkerLog("chat", "auto_close", err, "closed", closed)
}
