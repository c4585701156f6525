package logger

import (
	"context"
	"errors"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLogLevel int8 = 0

func TestGetReturnsSameInstance(t *testing.T) {
	first := Get(testLogLevel)
	require.NotNil(t, first)
	assert.Same(t, first, Get(-1), "later calls do not rebuild the logger")
}

func TestGetFallsBackToNoop(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Get(testLogLevel))
}

func TestSetOutputAfterGet(t *testing.T) {
	Get(testLogLevel)
	err := SetOutput(filepath.Join(t.TempDir(), "gridx.log"))
	require.Error(t, err)
}

func TestSetOutputBadPath(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	err := SetOutput(filepath.Join(t.TempDir(), "missing", "dir", "gridx.log"))
	require.Error(t, err)
	assert.Empty(t, outputPath)
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	log := Get(testLogLevel)

	withLog := WithLogger(ctx, log)
	assert.Same(t, log, FromContext(withLog))
	assert.Equal(t, withLog, WithLogger(withLog, log), "same logger keeps the context")

	other := logr.Discard()
	replaced := WithLogger(withLog, &other)
	assert.Same(t, &other, FromContext(replaced))
}

func TestFromContextFallbacks(t *testing.T) {
	global := Get(testLogLevel)
	assert.Same(t, global, FromContext(context.Background()))

	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
	assert.Same(t, &defaultNoopLogger, GetGlobalLogger())
}

func TestComponent(t *testing.T) {
	log := Component(context.Background(), "grid")
	assert.NotPanics(t, func() { log.V(1).Info("state changed") })
}

func TestSyncWithoutLogger(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}

func TestWithValues(t *testing.T) {
	log := GetNoopLogger()
	withValues := WithValues(log, "key", "value")
	require.NotNil(t, withValues)
	assert.NotSame(t, log, withValues)

	var nilLog *logr.Logger
	assert.Panics(t, func() { _ = WithValues(nilLog, "key", "value") })
}
