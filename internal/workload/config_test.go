package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "seed: 9\noperations: 5\npercentiles: [25, 75]\n"))
	require.NoError(t, err)
	require.Equal(t, int64(9), cfg.Seed)
	require.Equal(t, 5, cfg.Operations)
	require.Equal(t, []int{25, 75}, cfg.Percentiles)
	require.Equal(t, DefaultConfig().InitialSize, cfg.InitialSize)
	require.Equal(t, DefaultConfig().ValueRange, cfg.ValueRange)
}

func TestLoadConfig_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"fractions over one": "remove_fraction: 0.8\nprobe_fraction: 0.5\n",
		"bad percentile":     "percentiles: [50, 101]\n",
		"empty value range":  "value_range: 0\n",
		"negative size":      "initial_size: -1\n",
		"malformed":          "seed: [1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestConfig_MarshalUsesFileKeys(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	require.NoError(t, err)
	for _, key := range []string{"seed:", "initial_size:", "remove_fraction:", "verify_every:"} {
		require.Contains(t, string(data), key)
	}
}
