package reconcile

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/bitforce/ambassador/pkg/config"
)

// registerScheduler runs the reconciliation on the configured interval for
// the lifetime of the app.
func registerScheduler(lc fx.Lifecycle, cfg *cfgpkg.Config, svc *Service, log *zap.SugaredLogger) error {
	if !cfg.Reconcile.Enabled || cfg.Reconcile.Interval <= 0 {
		log.Infow("ledger reconcile scheduler disabled")
		return nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(context.Background())
	_, err = sched.NewJob(
		gocron.DurationJob(cfg.Reconcile.Interval),
		gocron.NewTask(func() {
			if _, err := svc.Run(runCtx); err != nil {
				log.Errorw("ledger_reconcile_failed", "err", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Infow("starting ledger reconcile scheduler", "interval", cfg.Reconcile.Interval)
			sched.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return sched.Shutdown()
		},
	})
	return nil
}

var Module = fx.Options(
	fx.Provide(NewService),
	fx.Invoke(registerScheduler),
)
