package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFromEnvIsIdempotent(t *testing.T) {
	// Server setup and main both call InitFromEnv; only the first call may
	// install a recorder, otherwise increments land in a registry the
	// /metrics endpoint never serves.
	t.Setenv("METRICS_PROMETHEUS", "1")
	t.Setenv("METRICS_ADDR", "127.0.0.1:0")

	InitFromEnv()
	first := Default()
	require.NotNil(t, first)

	InitFromEnv()
	assert.Same(t, first, Default())
}
