package billing

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/tool"
)

type EventLog struct {
	store storage.BillingLogStore
	log   *zap.SugaredLogger
	wg    sync.WaitGroup
}

func NewEventLog(lc fx.Lifecycle, store storage.Store, log *zap.SugaredLogger) *EventLog {
	l := &EventLog{store: store, log: log}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		l.Wait()
		return nil
	}})
	return l
}

// Save asynchronously persists a billing event log. Nil input is ignored.
func (l *EventLog) Save(ctx context.Context, entry *models.BillingEventLog) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	row := *entry
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.store.SaveBillingEventLog(context.WithoutCancel(ctx), &row); err != nil {
			logctx.FromCtx(ctx, l.log).Errorf("failed to save billing event log: %v", err)
		}
	}()
}

// Wait blocks until every pending Save has finished.
func (l *EventLog) Wait() { l.wg.Wait() }
