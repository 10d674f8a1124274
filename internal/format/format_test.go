package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type placement struct {
	ID     string  `json:"id"`
	Angle  float64 `json:"angle"`
	Index  int     `json:"index"`
	Linked bool    `json:"has_link"`
	Tags   []string
}

func TestWrite(t *testing.T) {
	v := placement{ID: "reg", Angle: 1.5, Index: 2, Linked: true, Tags: []string{"a"}}
	tests := []struct {
		format string
		pretty bool
		want   string
	}{
		{format: "", want: `{"id":"reg","angle":1.5,"index":2,"has_link":true,"Tags":["a"]}` + "\n"},
		{format: "edn", want: `{:Tags ["a"] :angle 1.5 :has-link true :id "reg" :index 2}` + "\n"},
		{format: "edn", pretty: true, want: "{\n  :Tags [\n    \"a\"\n  ]\n  :angle 1.5\n  :has-link true\n  :id \"reg\"\n  :index 2\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, v, tt.format, tt.pretty))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, placement{ID: "reg", Angle: 1.5, Linked: true}, "yaml", false))
	out := buf.String()
	assert.Contains(t, out, "id: reg\n")
	assert.Contains(t, out, "angle: 1.5\n")
	assert.Contains(t, out, "has_link: true\n")
	assert.Contains(t, out, "Tags: null\n")
}

func TestWrite_EmptyCollectionsAndNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEDN(&buf, map[string]any{"items": []any{}, "meta": map[string]any{}, "err": nil}, true))
	assert.Equal(t, "{\n  :err nil\n  :items []\n  :meta {}\n}\n", buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, 1, "xml", false)
	assert.EqualError(t, err, "unknown format: xml")
}
