package main

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("CRIMETALK_TEST_VALUE", "set")
	assert.Equal(t, "set", getEnv("CRIMETALK_TEST_VALUE", "default"))
	assert.Equal(t, "default", getEnv("CRIMETALK_TEST_UNSET", "default"))
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CRIMETALK_DB", "/tmp/reader.db")
	t.Setenv("CRIMETALK_LOG_LEVEL", "debug")

	cfg := loadConfig()
	assert.Equal(t, "/tmp/reader.db", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "@every 1h", cfg.Refresh.Schedule)
}

func TestParseInterspersed(t *testing.T) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	refresh := fs.Bool("refresh", false, "")
	format := fs.String("format", "table", "")

	positional, err := parseInterspersed(fs, []string{"library", "--refresh", "Featured Articles", "--format", "json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"library", "Featured Articles"}, positional)
	assert.True(t, *refresh)
	assert.Equal(t, "json", *format)
}

func TestParseInterspersed_Terminator(t *testing.T) {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	refresh := fs.Bool("refresh", false, "")

	positional, err := parseInterspersed(fs, []string{"library", "--", "-dash title", "--refresh"})
	require.NoError(t, err)
	assert.Equal(t, []string{"library", "-dash title", "--refresh"}, positional)
	assert.False(t, *refresh, "flags after -- are positional")
}

func TestParseInterspersed_UnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})

	_, err := parseInterspersed(fs, []string{"library", "--bogus"})
	assert.Error(t, err)
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		cmd  string
		args []string
	}{
		{"darwin", "open", []string{"http://example.com/"}},
		{"linux", "xdg-open", []string{"http://example.com/"}},
		{"windows", "cmd", []string{"/c", "start", "http://example.com/"}},
	}

	for _, tt := range tests {
		cmd, args, err := browserCommand(tt.goos, "http://example.com/")
		require.NoError(t, err)
		assert.Equal(t, tt.cmd, cmd)
		assert.Equal(t, tt.args, args)
	}

	_, _, err := browserCommand("plan9", "http://example.com/")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Café s...", truncate("Café society", 9))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "", wrapText("", 8))
}
