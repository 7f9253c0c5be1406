package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droe-core/droe-view/internal/core/model"
)

// executeCommand runs the root command with args against an isolated home
// directory and returns everything written to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DROE_LOG__FILE", "")
	resetFlags()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag variables and their changed state between runs.
func resetFlags() {
	debug = false
	configFile = defaultConfigFile
	envFile = defaultEnvFile
	baseURL = ""
	appConfig = nil

	cardsSearch = ""
	cardsType = model.FilterAll
	cardsOutput = "table"
	cardsInteractive = false
	timelineType = model.FilterAll
	timelineInteractive = false
	interviewStages = ""
	stagesOutput = "table"

	for _, name := range []string{"config", "env-file", "base-url", "debug"} {
		rootCmd.PersistentFlags().Lookup(name).Changed = false
	}
	for _, cmd := range rootCmd.Commands() {
		for _, name := range []string{"search", "type", "output", "interactive", "stages"} {
			if f := cmd.Flags().Lookup(name); f != nil {
				f.Changed = false
			}
		}
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	err = ensureDir(testDir)
	assert.NoError(t, err)
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("DROE_CARDS__TYPES", "memory,person")

	out, err := executeCommand(t, "config", "--base-url", "http://droe.test:8080/")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://droe.test:8080\n")
	assert.Contains(t, out, "- memory\n")
	assert.Contains(t, out, "- person\n")
	assert.NotContains(t, out, "- place\n")
}

func TestConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://example.org\ninterview:\n  initial_stage: childhood\n"), 0644))

	out, err := executeCommand(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: https://example.org")
	assert.Contains(t, out, "initial_stage: childhood")
}

func TestSetupErrors(t *testing.T) {
	t.Run("missing explicit config", func(t *testing.T) {
		_, err := executeCommand(t, "config", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid base url flag", func(t *testing.T) {
		_, err := executeCommand(t, "config", "--base-url", "ftp://example.org")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api.base_url")
	})

	t.Run("invalid env override", func(t *testing.T) {
		t.Setenv("DROE_LOG__LEVEL", "loud")
		_, err := executeCommand(t, "config")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})
}

func TestMissingDefaultConfigIsFine(t *testing.T) {
	out, err := executeCommand(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://localhost:5000")
	assert.Contains(t, out, "initial_stage: foundations")
}
