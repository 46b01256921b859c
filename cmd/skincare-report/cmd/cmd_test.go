package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const request = `
user: {name: Arjun Mehta}
analysis:
  - category: Hair Loss
recommendations:
  - category: Evening Routine
    products:
      - name: Rosemary Hair Growth Oil
        tags: [Hair Oil]
`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("SKINREPORT_OUTPUT_DIR", filepath.Join(dir, "reports"))
	t.Setenv("SKINREPORT_DATABASE_PATH", filepath.Join(dir, "data", "reports.db"))
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "resolve", "--name", "Rosemary Hair Growth Oil", "--tag", "Hair Oil", "--phase", "evening")
	require.NoError(t, err)

	assert.Contains(t, out, "When:       Night\n")
	assert.Contains(t, out, "Frequency:  Once daily\n")
	assert.Contains(t, out, "Duration:   Minimum 12–16 weeks\n")
	assert.Contains(t, out, "Caution:    Do not apply on irritated scalp.")
	assert.Contains(t, out, "Rules:      hair oil, minoxidil\n")

	t.Run("Default", func(t *testing.T) {
		out, err := run(t, "", "resolve", "--name", "Face Mist", "--tag", "", "--phase", "morning")
		require.NoError(t, err)
		assert.Contains(t, out, "When:       Morning\n")
		assert.Contains(t, out, "Rules:      default\n")
		assert.NotContains(t, out, "Caution")
	})

	t.Run("BadPhase", func(t *testing.T) {
		_, err := run(t, "", "resolve", "--name", "Face Mist", "--phase", "noon")
		assert.Error(t, err)
	})
}

func TestRenderAndHistoryCommands(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "request.yaml")
	require.NoError(t, os.WriteFile(input, []byte(request), 0o644))

	out, err := run(t, "", "render", "--input", input, "--recipient", "arjun", "--no-print")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(path, filepath.Join(dir, "reports")))
	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Arjun's Personalized Hair Loss Plan")
	assert.NotContains(t, string(html), "window.print()")

	t.Run("Stdin", func(t *testing.T) {
		out, err := run(t, request, "render", "--input", "-", "--layout", "summary", "--recipient", "arjun", "--stdout")
		require.NoError(t, err)
		assert.Contains(t, out, "Doctor's Report")
	})

	t.Run("History", func(t *testing.T) {
		out, err := run(t, "", "history", "--recipient", "arjun", "--limit", "5")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.Contains(t, lines[1], "summary")
		assert.Contains(t, lines[2], "prescription")
	})

	t.Run("MetricsCleanup", func(t *testing.T) {
		out, err := run(t, "", "metrics-cleanup", "--days", "30")
		require.NoError(t, err)
		assert.Equal(t, "Removed 0 metric records older than 30 days.\n", out)
	})

	t.Run("Stats", func(t *testing.T) {
		out, err := run(t, "", "stats", "--days", "7")
		require.NoError(t, err)
		assert.Contains(t, out, "2 reports, 2 products")
		assert.Contains(t, out, "reports     2 files")
	})

	t.Run("UnknownLayout", func(t *testing.T) {
		_, err := run(t, "", "render", "--input", input, "--layout", "poster", "--stdout=false")
		assert.Error(t, err)
	})

	t.Run("PublishWithoutGhost", func(t *testing.T) {
		_, err := run(t, "", "publish", "--id", "whatever")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKINREPORT_GHOST_URL")
	})
}
