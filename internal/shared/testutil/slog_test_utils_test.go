package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler_KeepsBoundAttrs(t *testing.T) {
	logger, logs := NewTestLogger(t)
	engine := logger.With(slog.String("component", "analysis_engine"))

	engine.Info("sheet analyzed", slog.String("sheet", "Findings"), slog.Int("rows", 3))
	engine.Warn("sheet not analyzed", slog.String("sheet", "Notes"))

	require.Equal(t, 2, logs.Count())
	AssertSheetLogged(t, logs, "analysis_engine", "Findings", "sheet analyzed")
	AssertSheetLogged(t, logs, "analysis_engine", "Notes", "sheet not analyzed")
	AssertLogAttr(t, logs, "rows", int64(3))
	AssertLogContains(t, logs, slog.LevelWarn, "not analyzed")
	AssertNoErrors(t, logs)
}

func TestBufferedSlogHandler_DerivedHandlersShareBuffer(t *testing.T) {
	logger, logs := NewTestLogger(t)

	logger.Info("root")
	logger.With(slog.String("component", "workbook_loader")).Debug("sheet loaded", slog.String("sheet", "Summary"))
	logger.WithGroup("request").Info("served", slog.Int("status", 200))

	assert.Equal(t, 3, logs.Count())
	assert.True(t, logs.ContainsMessage("sheet loaded"))
	AssertLogAttr(t, logs, "request.status", int64(200))

	records := logs.snapshot()
	_, ok := records[0].attr("component")
	assert.False(t, ok, "attrs bound on a child do not leak to the parent")
}

func TestBufferedSlogHandler_GroupPrefixesBoundAttrs(t *testing.T) {
	logger, logs := NewTestLogger(t)

	logger.WithGroup("http").With(slog.String("path", "/api/analyze")).Info("request")

	AssertLogAttr(t, logs, "http.path", "/api/analyze")
}

func TestBufferedSlogHandler_ConcurrentLogging(t *testing.T) {
	logger, logs := NewTestLogger(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.With(slog.String("component", "analysis_service")).Info("workbook analyzed", slog.Int("worker", i))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, logs.Count())
}
