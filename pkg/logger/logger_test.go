package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/bitforce/ambassador/pkg/config"
)

func TestNew_LevelByEnv(t *testing.T) {
	dev, err := New(&cfgpkg.Config{Env: cfgpkg.EnvDev})
	require.NoError(t, err)
	require.True(t, dev.Desugar().Core().Enabled(zap.DebugLevel))

	prod, err := New(&cfgpkg.Config{Env: cfgpkg.EnvProd})
	require.NoError(t, err)
	require.False(t, prod.Desugar().Core().Enabled(zap.DebugLevel))
	require.True(t, prod.Desugar().Core().Enabled(zap.InfoLevel))
}
