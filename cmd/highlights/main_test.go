package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/highlights/pkg/client"
	"github.com/aretw0/highlights/pkg/core"
)

// run executes the root command in-process and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores command flag variables, which outlive a single Execute.
func resetFlags() {
	captureURL, captureLink, captureEmbedLink, captureLocal = "", false, false, false
	captureServer = client.DefaultEndpoint
	readJSON, listJSON, configForce = false, false, false
	listMatch = ""
}

func workspace(t *testing.T) (notes string, common []string) {
	t.Helper()
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "HIGHLIGHTS_") {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}
	dir := t.TempDir()
	notes = filepath.Join(dir, "notes")
	return notes, []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--env-file", filepath.Join(dir, ".env"),
		"--notes-dir", notes,
	}
}

func TestCLI_LocalCaptureReadList(t *testing.T) {
	notes, common := workspace(t)

	out, err := run(t, "", append([]string{"capture", "--local", "--url", "https://a.com", "--link", "First", "quote"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to ")

	out, err = run(t, "  from stdin  ", append([]string{"capture", "--local", "--link=false"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to ")

	out, err = run(t, "", append([]string{"list", "--json"}, common...)...)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	require.Len(t, ids, 1)

	out, err = run(t, "", append([]string{"read", ids[0]}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "## Highlights\n\nFirst quote\n\nhttps://a.com\n\nfrom stdin\n\n", out)

	data, err := os.ReadFile(filepath.Join(notes, ids[0]+".md"))
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestCLI_ListMatch(t *testing.T) {
	notes, common := workspace(t)
	require.NoError(t, os.MkdirAll(notes, 0755))
	for _, id := range []string{"2024-02-28", "2024-03-01", "2024-03-15"} {
		require.NoError(t, os.WriteFile(filepath.Join(notes, id+".md"), []byte("## Highlights\n\n"), 0644))
	}

	out, err := run(t, "", append([]string{"list", "--match", "2024-03-*"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01\n2024-03-15\n", out)

	_, err = run(t, "", append([]string{"list", "--match", "2024-[03"}, common...)...)
	assert.ErrorIs(t, err, core.ErrInvalidPattern)
}

func TestCLI_ReadMissing(t *testing.T) {
	notes, common := workspace(t)
	require.NoError(t, os.MkdirAll(notes, 0755))

	_, err := run(t, "", append([]string{"read", "1999-01-01"}, common...)...)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCLI_CaptureThroughServer(t *testing.T) {
	_, common := workspace(t)

	var got core.Capture
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/save-text", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("Text and link processed"))
	}))
	defer ts.Close()

	out, err := run(t, "", append([]string{
		"capture", "--server", ts.URL + "/save-text", "--url", "https://b.com", "--embed-link", "hello",
	}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "Text and link processed\n", out)
	assert.Equal(t, "hello\n\nhttps://b.com\n\n", got.Text)
	assert.True(t, got.IncludeLink)
	assert.Equal(t, "https://b.com", got.URL)
}

func TestCLI_ConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg", "config.yaml")

	out, err := run(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = run(t, "", "config", "init", "--config", path)
	assert.Error(t, err, "existing file is kept without --force")

	_, err = run(t, "", "config", "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "highlights version "))
}
