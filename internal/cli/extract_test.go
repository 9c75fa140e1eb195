package cli

// Test Plan for extract command:
// - extract and version commands are registered on the root command
// - extractFile reads a document, writes JSON output and returns the result
// - YAML output inlines component payloads as mappings
// - Render jobs are written to the manifest file when configured
// - Resources are persisted to SQLite when a resource store is configured
// - Malformed input documents fail with a decode error
// - encode rejects unknown formats
// - formatNumber groups thousands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/componentize/internal/config"
	"github.com/mvp-joe/componentize/internal/render"
	"github.com/mvp-joe/componentize/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleDocument = `{
  "nodes": [
    {"id": "def", "sourceId": "src:def", "name": "Button/Default", "type": "button", "geometry": {"width": 120, "height": 40}, "children": [
      {"id": "def/bg", "name": "bg", "type": "graph", "geometry": {"width": 120, "height": 40}, "style": {"fill": "#1e88e5", "cornerRadius": 6}},
      {"id": "def/title", "name": "title", "type": "text", "content": {"text": "OK"}}
    ]},
    {"id": "pressed", "sourceId": "src:pressed", "name": "Button/Pressed", "type": "button", "geometry": {"width": 120, "height": 40}, "children": [
      {"id": "pressed/bg", "name": "bg", "type": "graph", "geometry": {"width": 120, "height": 40}, "style": {"fill": "#e53935", "cornerRadius": 6}},
      {"id": "pressed/title", "name": "title", "type": "text", "content": {"text": "Cancel"}}
    ]}
  ],
  "resources": [{"id": "img-1", "name": "photo.png", "kind": "image"}]
}`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testOptions(t *testing.T, input string) extractOptions {
	t.Helper()
	return extractOptions{
		input:    input,
		output:   filepath.Join(t.TempDir(), "out"),
		quiet:    true,
		cfg:      config.Default(),
		logger:   slog.New(slog.DiscardHandler),
		progress: io.Discard,
	}
}

func TestCommands_AreRegistered(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["extract"])
	assert.True(t, names["version"])
}

func TestExtractFile_JSON(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, writeInput(t, sampleDocument))
	result, err := extractFile(t.Context(), opts)
	require.NoError(t, err)
	require.Len(t, result.Resources, 2)

	data, err := os.ReadFile(opts.output)
	require.NoError(t, err)

	var out struct {
		Nodes []struct {
			Ref       string         `json:"ref"`
			Overrides map[string]any `json:"overrides"`
		} `json:"nodes"`
		Resources []struct {
			ID      string          `json:"id"`
			Kind    string          `json:"kind"`
			Payload json.RawMessage `json:"payload"`
		} `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	require.Len(t, out.Nodes, 2)
	assert.Equal(t, out.Resources[0].ID, out.Nodes[0].Ref)
	assert.Equal(t, float64(1), out.Nodes[1].Overrides["page"])
	assert.Equal(t, "component", out.Resources[0].Kind)
	assert.NotEmpty(t, out.Resources[0].Payload)
	assert.Equal(t, "img-1", out.Resources[1].ID)
}

func TestExtractFile_YAML(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, writeInput(t, sampleDocument))
	opts.cfg.Output.Format = config.FormatYAML
	_, err := extractFile(t.Context(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(opts.output)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	resources, ok := out["resources"].([]any)
	require.True(t, ok)
	first, ok := resources[0].(map[string]any)
	require.True(t, ok)
	payload, ok := first["payload"].(map[string]any)
	require.True(t, ok, "payload is a mapping")
	assert.Equal(t, "Button/Default", payload["name"])
}

func TestExtractFile_ManifestAndStore(t *testing.T) {
	t.Parallel()

	opts := testOptions(t, writeInput(t, sampleDocument))
	opts.manifest = filepath.Join(t.TempDir(), "renders.json")
	opts.cfg.Output.ResourceDB = storage.NewTestDBPath(t)

	result, err := extractFile(t.Context(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(opts.manifest)
	require.NoError(t, err)
	var jobs []render.Job
	require.NoError(t, json.Unmarshal(data, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "@1", jobs[0].Suffix)

	db, err := storage.Open(opts.cfg.Output.ResourceDB)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reader := storage.NewResourceReaderWithDB(db)
	stored, err := reader.ReadResources()
	require.NoError(t, err)
	assert.Len(t, stored, len(result.Resources))

	storedJobs, err := reader.ReadRenderJobs()
	require.NoError(t, err)
	assert.Equal(t, jobs, storedJobs)
}

func TestExtractFile_MalformedInput(t *testing.T) {
	t.Parallel()

	_, err := extractFile(t.Context(), testOptions(t, writeInput(t, `{"nodes": [`)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode input document")
}

func TestEncode_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := encode(&bytes.Buffer{}, map[string]int{"a": 1}, "xml")
	assert.ErrorIs(t, err, config.ErrInvalidFormat)
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4321, "-4,321"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in))
	}
}
