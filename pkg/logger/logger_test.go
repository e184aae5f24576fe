package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromContext(t *testing.T) {
	SetNewNop()

	t.Run("沒有 request logger 時回傳全域 Log", func(t *testing.T) {
		assert.Same(t, Log, FromContext(context.Background()))
	})

	t.Run("取回放進 context 的 logger", func(t *testing.T) {
		child := Log.With(zap.String("request_id", "r1"))
		ctx := NewContext(context.Background(), child)
		assert.Same(t, child, FromContext(ctx))
	})
}

func TestWithSharesDebugFlag(t *testing.T) {
	parent := NewNop()
	child := parent.With(zap.String("k", "v"))

	parent.SetDebugMode(true)
	assert.True(t, child.DebugMode())
	child.SetDebugMode(false)
	assert.False(t, parent.DebugMode())
}
