package leadservice

import "go.uber.org/fx"

// Module exposes the lead service status machine via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
