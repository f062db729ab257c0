package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "yatube-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "PostService", "Create")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
}

func TestTrackQuery(t *testing.T) {
	before := testutil.CollectAndCount(DatabaseQueryLatency)
	TrackQuery("select", "posts_test")()
	assert.Equal(t, before+1, testutil.CollectAndCount(DatabaseQueryLatency))
}

func TestRepoLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := Base
	Base = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { Base = prev })

	l := NewRepoLogger("follows")
	l.LogDelete(context.Background(), 7, 1)
	l.LogError(context.Background(), "create", errors.New("duplicate"))

	out := buf.String()
	assert.Contains(t, out, "table=follows")
	assert.Contains(t, out, "rows=1")
	assert.Contains(t, out, "operation=create")
	assert.Contains(t, out, "error=duplicate")
}
