package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
name: ofs-monitor
host: 127.0.0.1
port: 8090
log_level: INFO
issue:
  symbol: HINDUNILVR
  scripcode: "500188"
  issue_size: 18000000
  floor_price: 2400.0
network:
  timeout: 15
  retries: 3
collectors:
  nse:
    enabled: true
    url: https://example.test/nse
  bse:
    enabled: true
    url: https://example.test/bse
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

// -----------------------------------------------------------------------------

func TestNewConfig_Valid(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "ofs-monitor", cfg.Name)
	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, int64(18000000), cfg.Issue.IssueSize)
	assert.Equal(t, 2400.0, cfg.Issue.FloorPrice)
}

func TestNewConfig_AppliesDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Broadcast.PeriodMs)
	assert.Equal(t, 120, cfg.Broadcast.StaleAfterSeconds)
	assert.Equal(t, 30, cfg.Collectors.NSE.IntervalSeconds)
	assert.Equal(t, 60, cfg.Collectors.BSE.IntervalSeconds)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewConfig_MalformedYAML(t *testing.T) {
	_, err := NewConfig(writeConfig(t, "name: [unclosed"))
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s string) string
		wantErr string
	}{
		{
			name:    "issue size zero",
			mutate:  func(s string) string { return replaceLine(s, "issue_size: 18000000", "issue_size: 0") },
			wantErr: "issue size",
		},
		{
			name:    "floor price zero",
			mutate:  func(s string) string { return replaceLine(s, "floor_price: 2400.0", "floor_price: 0") },
			wantErr: "floor price",
		},
		{
			name:    "privileged port",
			mutate:  func(s string) string { return replaceLine(s, "port: 8090", "port: 80") },
			wantErr: "port",
		},
		{
			name:    "scripcode required with bse enabled",
			mutate:  func(s string) string { return replaceLine(s, `scripcode: "500188"`, `scripcode: ""`) },
			wantErr: "scripcode",
		},
		{
			name:    "request timeout required",
			mutate:  func(s string) string { return replaceLine(s, "timeout: 15", "timeout: 0") },
			wantErr: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, tt.mutate(validYAML)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NoCollectorsEnabled(t *testing.T) {
	yaml := validYAML
	yaml = replaceLine(yaml, "enabled: true", "enabled: false")
	yaml = replaceLine(yaml, "enabled: true", "enabled: false")

	_, err := NewConfig(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one collector")
}

// -----------------------------------------------------------------------------

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(out))

	reloaded, err := NewConfig(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.MConfig, reloaded.MConfig)
}

// -----------------------------------------------------------------------------

func replaceLine(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
