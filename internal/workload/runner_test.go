package workload

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	cfg := smallConfig()
	cfg.VerifyEvery = 100
	cfg.LogEvery = 250
	var logs, progress bytes.Buffer
	reg := prometheus.NewRegistry()
	r, err := NewRunner(cfg, reg, zerolog.New(&logs))
	require.NoError(t, err)
	r.Progress = &progress

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, cfg.InitialSize+cfg.Operations, rep.Adds+rep.Removes+rep.Probes)
	require.Equal(t, rep.Adds-(rep.Removes-rep.Missed), rep.FinalSize)
	require.Equal(t, 550/100+1, rep.Verifications)
	require.Positive(t, rep.FinalHeight)
	require.Len(t, rep.Samples, len(cfg.Percentiles))
	require.LessOrEqual(t, rep.Samples[0], rep.Samples[100])

	require.Equal(t, float64(rep.FinalSize), testutil.ToFloat64(r.bagSize))
	require.Equal(t, float64(rep.FinalHeight), testutil.ToFloat64(r.bagHeight))
	require.Equal(t, float64(rep.Adds), testutil.ToFloat64(r.opsTotal.WithLabelValues("add", "ok")))
	require.Equal(t, float64(rep.Missed), testutil.ToFloat64(r.opsTotal.WithLabelValues("remove", "missing")))
	require.Equal(t, float64(rep.Verifications), testutil.ToFloat64(r.verifyCount))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["avlbag_ops_total"])
	require.True(t, names["avlbag_size"])
	require.True(t, names["avlbag_height"])

	require.Contains(t, logs.String(), "run complete")
	require.Contains(t, logs.String(), "applied 250 operations")
	require.NotZero(t, progress.Len())
}

func TestRunner_Reproducible(t *testing.T) {
	cfg := smallConfig()
	run := func() Report {
		r, err := NewRunner(cfg, nil, zerolog.Nop())
		require.NoError(t, err)
		rep, err := r.Run(context.Background())
		require.NoError(t, err)
		return rep
	}
	first, second := run(), run()
	require.Equal(t, first.FinalSize, second.FinalSize)
	require.Equal(t, first.Missed, second.Missed)
	require.Equal(t, first.Samples, second.Samples)
}

func TestRunner_EmptyBagProbes(t *testing.T) {
	cfg := smallConfig()
	cfg.InitialSize = 0
	cfg.RemoveFraction, cfg.ProbeFraction = 0, 1
	r, err := NewRunner(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, cfg.Operations, rep.EmptyProbes)
	require.Equal(t, 0, rep.FinalSize)
	require.Empty(t, rep.Samples)
}

func TestRunner_Cancelled(t *testing.T) {
	r, err := NewRunner(smallConfig(), nil, zerolog.Nop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := r.Run(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.Zero(t, rep.Adds)
}

func TestNewRunner_RejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Percentiles = []int{-5}
	_, err := NewRunner(cfg, nil, zerolog.Nop())
	require.Error(t, err)
}
