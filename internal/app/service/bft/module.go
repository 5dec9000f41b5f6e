package bft

import "go.uber.org/fx"

// Module exposes the BFT ledger via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
