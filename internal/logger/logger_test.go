package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	SetLevel("debug")
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	SetLevel("WARNING")
	assert.Equal(t, zapcore.WarnLevel, level.Level())
	SetLevel("bogus")
	assert.Equal(t, zapcore.InfoLevel, level.Level())
}

func TestSetRoutesPackageHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	defer Set(prev)

	Infof("loaded %d bars", 3)
	Warnf("slow %s", "source")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "loaded 3 bars", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}
