package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/bitforce/ambassador/internal/app/api/server"
	"github.com/bitforce/ambassador/internal/app/service/bft"
	"github.com/bitforce/ambassador/internal/app/service/billing"
	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/service/invite"
	"github.com/bitforce/ambassador/internal/app/service/leadservice"
	"github.com/bitforce/ambassador/internal/app/service/reconcile"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/app/service/statistics"
	"github.com/bitforce/ambassador/internal/app/storage/postgres"
	"github.com/bitforce/ambassador/internal/platform/cache"
	"github.com/bitforce/ambassador/internal/platform/db"
	"github.com/bitforce/ambassador/internal/platform/mailer"
	"github.com/bitforce/ambassador/internal/platform/recommend"
	"github.com/bitforce/ambassador/internal/platform/tokenplatform"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/logger"
	"github.com/bitforce/ambassador/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// adapters bind concrete collaborators to the narrow interfaces services
// depend on.
var adapters = fx.Provide(
	func(s *bft.Service) gamification.RewardPoster { return s },
	func(c *tokenplatform.Client) bft.PurchasedBalanceFetcher {
		// keep the interface nil when the platform is not configured
		if c == nil {
			return nil
		}
		return c
	},
	func(n *recommend.Notifier) leadservice.RefreshNotifier { return n },
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	db.Module,
	postgres.Module,
	cache.Module,
	mailer.Module,
	tokenplatform.Module,
	recommend.Module,
	adapters,
	gamification.Module,
	bft.Module,
	referral.Module,
	leadservice.Module,
	invite.Module,
	billing.Module,
	reconcile.Module,
	statistics.Module,
	server.Module,
)
