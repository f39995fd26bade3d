package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mockConfig(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"LLM_PROVIDER", "LLM_MODEL", "MARKER_BACKEND", "TZ_NAME", "API_KEY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: "Asia/Tokyo"
log_level: "error"
llm:
  provider: mock
markers:
  backend: memory
`), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, version+"\n", out)
}

func TestRenderFromStdin(t *testing.T) {
	out, err := run(t, "## 見出し\n- 項目\n> 引用\n本文", "render")
	require.NoError(t, err)
	for _, want := range []string{"見出し", "項目", "引用", "本文"} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, "## ")
}

func TestGenerateWithMockProvider(t *testing.T) {
	cfg := mockConfig(t)
	dir := t.TempDir()

	out, err := run(t, "", "generate", "--config", cfg, "--topic", "先延ばし癖", "--out", dir)
	require.NoError(t, err)
	require.Contains(t, out, "先延ばし癖")

	files, err := filepath.Glob(filepath.Join(dir, "psych-*.html"))
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestGenerateRequiresTopic(t *testing.T) {
	_, err := run(t, "", "generate", "--config", mockConfig(t))
	require.Error(t, err)
}

func TestCheckSchedule(t *testing.T) {
	cfg := mockConfig(t)

	out, err := run(t, "", "check-schedule", "--config", cfg, "--at", "2024-05-23T07:00:00+09:00")
	require.NoError(t, err)
	require.Contains(t, out, "fired morning")

	out, err = run(t, "", "check-schedule", "--config", cfg, "--at", "2024-05-23T05:00:00+09:00")
	require.NoError(t, err)
	require.Contains(t, out, "no slot due")
}
