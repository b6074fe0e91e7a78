package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evdnx/solid/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "solid.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logger:\n  level: error\n"), 0o644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	require.NoError(t, root.Execute())
	return out.String()
}

func writeCandles(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("date,open,high,low,close,volume\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 100 + 8*math.Sin(float64(i)/9)
		fmt.Fprintf(&b, "%s,%.4f,%.4f,%.4f,%.4f,%d\n",
			start.Add(time.Duration(i)*15*time.Minute).Format(time.RFC3339),
			c, c+0.5, c-0.5, c, 100+i%5)
	}
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestParamsCommand_Values(t *testing.T) {
	out := execute(t, "params", "--values")

	var doc map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 30, doc["buy"]["buy_rsi"])
	assert.Equal(t, 0.05, doc["sell"]["trailing_stop"])
	assert.Equal(t, true, doc["protection"]["use_stop_protection"])
}

func TestParamsCommand_Overlay(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("buy:\n  buy_rsi: 25\n"), 0o644))

	out := execute(t, "--params", overlay, "params", "--values")
	var doc map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 25, doc["buy"]["buy_rsi"])
}

func TestProtectionsCommand(t *testing.T) {
	out := execute(t, "protections")
	assert.Contains(t, out, "CooldownPeriod")
	assert.Contains(t, out, "StoplossGuard")
	assert.Contains(t, out, "stop_duration_candles: 48")
}

func TestReplayCommand(t *testing.T) {
	path := writeCandles(t, 300)
	out := execute(t, "replay", "--data", path, "--roi-clock", "bar", "--json", "--trades")

	var doc struct {
		Summary replay.Summary `json:"summary"`
		Trades  []replay.Trade `json:"trades"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 300, doc.Summary.Bars)
	assert.Equal(t, "BTC/USDT", doc.Summary.Pair)
	assert.Equal(t, len(doc.Trades), doc.Summary.Trades)
	assert.Greater(t, doc.Summary.FinalEquity, 0.0)
	for _, tr := range doc.Trades {
		assert.False(t, tr.ClosedAt.Before(tr.OpenedAt))
		assert.NotEmpty(t, tr.Reason)
	}
}

func TestReplayCommand_RequiresData(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"replay"})
	assert.Error(t, root.Execute())
}
