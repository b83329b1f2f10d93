package observability_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bstindex/internal/observability"
)

func TestWriteMetrics_ExposesInstruments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	providers, err := observability.Init(ctx, observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(ctx)) })

	gauge, err := providers.Meter.Int64UpDownCounter("bstindex.keys")
	require.NoError(t, err)
	gauge.Add(ctx, 3)

	var buf bytes.Buffer

	require.NoError(t, observability.WriteMetrics(&buf, providers.Registry))

	body := buf.String()
	assert.Contains(t, body, "# TYPE bstindex_keys gauge")
	assert.Contains(t, body, "target_info")
}

func TestWriteMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	first, err := observability.Init(ctx, observability.DefaultConfig())
	require.NoError(t, err)

	second, err := observability.Init(ctx, observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, first.Shutdown(ctx))
		require.NoError(t, second.Shutdown(ctx))
	})

	counter, err := first.Meter.Int64Counter("only.first")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	var buf bytes.Buffer

	require.NoError(t, observability.WriteMetrics(&buf, second.Registry))
	assert.NotContains(t, buf.String(), "only_first")
}
