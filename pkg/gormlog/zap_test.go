package gormlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestShortCaller(t *testing.T) {
	cases := map[string]string{
		"/Users/alex/repo/internal/platform/db/postgres.go:38": "internal/platform/db/postgres.go:38",
		`C:\repo\project\pkg\x\y.go:12`:                        "pkg/x/y.go:12",
		"/a/b/c/d.go:1":                                        "b/c/d.go:1",
		"d.go:1":                                               "d.go:1",
		"":                                                     "",
	}
	for in, want := range cases {
		require.Equal(t, want, shortCaller(in), in)
	}
}

func TestTrace_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	z := New(zap.New(core).Sugar())
	fc := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	z.Trace(ctx, time.Now(), fc, gorm.ErrRecordNotFound)
	require.Equal(t, 0, logs.Len())

	z.Trace(ctx, time.Now(), fc, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("gorm_trace").Len())

	z.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	require.Equal(t, 1, logs.FilterMessage("gorm_slow").Len())

	z.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), fc, errors.New("boom"))
	require.Equal(t, 2, logs.Len())
}
