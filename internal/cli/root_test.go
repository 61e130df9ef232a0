package cli

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/leaderboard"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestScoresCommand(t *testing.T) {
	store := leaderboard.NewMemoryStore()
	for _, r := range []leaderboard.Record{
		leaderboard.NewRecord("alice", 900),
		leaderboard.NewRecord("bob", 300),
	} {
		require.NoError(t, store.Add(context.Background(), r))
	}
	srv := httptest.NewServer(leaderboard.NewServer(store, quietLogger()).Handler())
	defer srv.Close()

	path := writeConfig(t, "[leaderboard]\nurl = \""+srv.URL+"/api\"\n")
	out, err := execute(t, "--config", path, "scores", "-n", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "High scores")
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")
}

func TestScoresCommandWithoutURL(t *testing.T) {
	t.Setenv("BLOCKFALL_LEADERBOARD_URL", "")
	path := writeConfig(t, "")
	_, err := execute(t, "--config", path, "scores")
	assert.ErrorIs(t, err, errNoLeaderboard)
}

func TestBadConfig(t *testing.T) {
	path := writeConfig(t, "[board]\nrows = -1\n")
	_, err := execute(t, "--config", path, "scores")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestStressCommand(t *testing.T) {
	path := writeConfig(t, "[board]\nrows = 8\ncols = 6\n")
	out, err := execute(t, "--config", path, "stress", "--duration", "100ms", "--seed", "5", "--rate", "300", "--record")
	require.NoError(t, err)

	assert.Contains(t, out, "# Blockfall Stress Report")
	assert.Contains(t, out, "**Seed:** 5")
}

func TestPrintScoresEmpty(t *testing.T) {
	var buf bytes.Buffer
	printScores(&buf, nil)
	assert.Contains(t, buf.String(), "no scores yet")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, engine.Snapshot{Score: 1200, Lines: 12, Level: 2})
	assert.Contains(t, buf.String(), "1200")
	assert.Contains(t, buf.String(), "lines")
}

func TestVersion(t *testing.T) {
	SetVersion("v1.2.3")
	defer SetVersion("dev")

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "v1.2.3")
}
