package referral

import "go.uber.org/fx"

// Module exposes referral bookkeeping via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
