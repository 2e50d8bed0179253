package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapObserver_LogsCall(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs := NewZapObserver(zap.New(core))

	obs.OnCallComplete(LLMCallEvent{Task: TaskGuide, Model: "gemini-2.5-flash", LatencyMs: 42, Success: false, ErrorCode: "BACKEND"})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "llm_call", entries[0].Message)
	assert.Equal(t, "guide", fields["task"])
	assert.Equal(t, int64(42), fields["latency_ms"])
	assert.Equal(t, "err:BACKEND", fields["status"])
}
