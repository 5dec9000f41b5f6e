package gamification

import "go.uber.org/fx"

// Module exposes the gamification ledger via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
