package billing

import "go.uber.org/fx"

// Module exposes Stripe webhook intake via Fx.
var Module = fx.Options(
	fx.Provide(NewEventLog, NewService),
)
