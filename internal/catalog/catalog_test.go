package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	doc := Document{Items: []any{map[string]any{}}}
	cat := Normalize(doc)
	require.Len(t, cat.Items, 1)

	it := cat.Items[0]
	assert.Equal(t, DefaultTitle, it.Title, "missing title falls back and the item is retained")
	assert.Equal(t, DefaultTag, it.Tag)
	assert.Equal(t, DefaultIcon, it.Icon)
	assert.Equal(t, DefaultColor, it.Color)
	assert.Equal(t, model.NoLink, it.Link)
	assert.Equal(t, "", it.Desc)
	assert.Equal(t, "", it.Image)
	assert.NotEmpty(t, it.ID)
}

func TestNormalize_BlankAndNonStringValues(t *testing.T) {
	doc := Document{Items: []any{map[string]any{
		"id":    "   ",
		"title": 42,
		"tag":   "",
		"desc":  []any{"x"},
		"color": nil,
	}}}
	cat := Normalize(doc)
	require.Len(t, cat.Items, 1)
	it := cat.Items[0]
	assert.NotEqual(t, "   ", it.ID)
	assert.True(t, strings.HasPrefix(it.ID, "item_"))
	assert.Equal(t, DefaultTitle, it.Title)
	assert.Equal(t, DefaultTag, it.Tag)
	assert.Equal(t, "", it.Desc)
	assert.Equal(t, DefaultColor, it.Color)
}

func TestNormalize_GeneratedIDsAreDistinct(t *testing.T) {
	doc := Document{Items: []any{
		map[string]any{"title": "A"},
		map[string]any{"title": "B", "id": ""},
	}}
	cat := Normalize(doc)
	require.Len(t, cat.Items, 2)
	assert.NotEmpty(t, cat.Items[0].ID)
	assert.NotEmpty(t, cat.Items[1].ID)
	assert.NotEqual(t, cat.Items[0].ID, cat.Items[1].ID)
}

func TestNormalize_DuplicateIDRegenerated(t *testing.T) {
	n := 0
	norm := Normalizer{NewID: func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}}
	cat := norm.Normalize(Document{Items: []any{
		map[string]any{"id": "dup", "title": "A"},
		map[string]any{"id": "dup", "title": "B"},
	}})
	require.Len(t, cat.Items, 2)
	assert.Equal(t, "dup", cat.Items[0].ID)
	assert.Equal(t, "gen-1", cat.Items[1].ID)
}

func TestNormalize_MetaDefaultLink(t *testing.T) {
	doc := Document{
		Meta: map[string]any{"defaultLink": "https://museum.example"},
		Items: []any{
			map[string]any{"title": "A"},
			map[string]any{"title": "B", "link": "https://b.example"},
		},
	}
	cat := Normalize(doc)
	require.Len(t, cat.Items, 2)
	assert.Equal(t, "https://museum.example", cat.Meta.DefaultLink)
	assert.Equal(t, "https://museum.example", cat.Items[0].Link)
	assert.Equal(t, "https://b.example", cat.Items[1].Link)
}

func TestNormalize_SkipsNonObjectRecordsAndKeepsOrder(t *testing.T) {
	doc := Document{Items: []any{
		map[string]any{"id": "1", "title": "One"},
		"junk",
		nil,
		map[string]any{"id": "2", "title": "Two"},
	}}
	cat := Normalize(doc)
	require.Len(t, cat.Items, 2)
	assert.Equal(t, "1", cat.Items[0].ID)
	assert.Equal(t, "2", cat.Items[1].ID)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		format    Format
		wantItems int
		wantErr   bool
	}{
		{name: "json object", body: `{"meta":{"defaultLink":"x"},"items":[{"title":"a"},{"title":"b"}]}`, format: FormatJSON, wantItems: 2},
		{name: "json items not a list", body: `{"items":{"title":"a"}}`, format: FormatJSON, wantItems: 0},
		{name: "json array top level", body: `[1,2]`, format: FormatJSON, wantErr: true},
		{name: "json malformed", body: `{"items":[`, format: FormatJSON, wantErr: true},
		{name: "yaml document", body: "items:\n  - title: a\n    tag: t\n", format: FormatYAML, wantItems: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.body), tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, doc.Items, tt.wantItems)
		})
	}
}

func TestDecode_JSONNumbersAreNotStrings(t *testing.T) {
	doc, err := Decode([]byte(`{"items":[{"id":7,"title":"Seven"}]}`), FormatJSON)
	require.NoError(t, err)
	cat := Normalize(doc)
	require.Len(t, cat.Items, 1)
	assert.NotEqual(t, "7", cat.Items[0].ID)
}

func TestFormatForName(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForName("data.yaml"))
	assert.Equal(t, FormatYAML, FormatForName("https://x/data.YML?v=1"))
	assert.Equal(t, FormatJSON, FormatForName("data.json"))
	assert.Equal(t, FormatJSON, FormatForName("data"))
}

func TestFilter(t *testing.T) {
	items := []model.Item{
		{ID: "1", Title: "Registan Square", Tag: "History", Desc: "Three madrasahs"},
		{ID: "2", Title: "Chorsu Bazaar", Tag: "Market", Desc: "Spices and bread"},
		{ID: "3", Title: "TV Tower", Tag: "Landmark", Desc: ""},
	}
	tests := []struct {
		q    string
		want []string
	}{
		{q: "", want: []string{"1", "2", "3"}},
		{q: "   ", want: []string{"1", "2", "3"}},
		{q: "REGISTAN", want: []string{"1"}},
		{q: "market", want: []string{"2"}},
		{q: "bread", want: []string{"2"}},
		{q: "tower", want: []string{"3"}},
		{q: "o", want: []string{"1", "2", "3"}},
		{q: "nothing", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got := []string{}
			for _, it := range Filter(items, tt.q) {
				got = append(got, it.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("https://example.org/data.json")
	require.NoError(t, err)
	assert.IsType(t, &HTTPSource{}, src)

	src, err = ParseSource("sqlite:///tmp/catalog.db")
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Path: "/tmp/catalog.db"}, src)

	src, err = ParseSource("data.json")
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "data.json"}, src)

	_, err = ParseSource("  ")
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = ParseSource("sqlite://")
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"items":[{"id":"a","title":"A"}]}`), 0o644))

	res := Load(context.Background(), FileSource{Path: p})
	require.True(t, res.OK())
	require.Len(t, res.Catalog.Items, 1)
	assert.Equal(t, "1 exhibit", res.Summary())
}

func TestLoad_MissingFileDegradesToEmpty(t *testing.T) {
	res := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.json")})
	assert.False(t, res.OK())
	assert.NotNil(t, res.Catalog.Items)
	assert.Empty(t, res.Catalog.Items)
	assert.NotEmpty(t, res.Diagnostic)
	assert.Equal(t, res.Diagnostic, res.Summary())
}

func TestLoad_NilSource(t *testing.T) {
	res := Loader{}.Load(context.Background())
	assert.ErrorIs(t, res.Err, ErrNoSource)
	assert.Empty(t, res.Catalog.Items)
}

func TestHTTPSource_CacheBustAndDecode(t *testing.T) {
	var gotV string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotV = r.URL.Query().Get("v")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"A"},{"title":"B"}]}`))
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL + "/data.json", Now: func() time.Time { return time.UnixMilli(1234) }}
	res := Load(context.Background(), src)
	require.True(t, res.OK())
	assert.Len(t, res.Catalog.Items, 2)
	assert.Equal(t, "1234", gotV)
	assert.Equal(t, "2 exhibits", res.Summary())
}

func TestHTTPSource_StatusErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	res := Load(context.Background(), &HTTPSource{URL: srv.URL + "/data.json"})
	assert.False(t, res.OK())
	var se statusError
	assert.True(t, errors.As(res.Err, &se))
	assert.Equal(t, http.StatusNotFound, se.code)
	assert.Empty(t, res.Catalog.Items)
}

func TestHTTPSource_NetworkErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := Load(context.Background(), &HTTPSource{URL: url + "/data.json"})
	assert.False(t, res.OK())
	assert.Empty(t, res.Catalog.Items)
}

func TestSnapshot_RoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	snap := Snapshot{Path: filepath.Join(t.TempDir(), "nested", "catalog.db")}

	doc := Document{
		Meta: map[string]any{"defaultLink": "https://d.example"},
		Items: []any{
			map[string]any{"id": "z", "title": "Zeta"},
			map[string]any{"id": "a", "title": "Alpha"},
		},
	}
	require.NoError(t, snap.Save(ctx, doc))

	res := Load(ctx, snap)
	require.True(t, res.OK())
	require.Len(t, res.Catalog.Items, 2)
	assert.Equal(t, "z", res.Catalog.Items[0].ID)
	assert.Equal(t, "a", res.Catalog.Items[1].ID)
	assert.Equal(t, "https://d.example", res.Catalog.Items[0].Link)

	// Save replaces, never merges.
	require.NoError(t, snap.Save(ctx, Document{Items: []any{map[string]any{"id": "only", "title": "Only"}}}))
	res = Load(ctx, snap)
	require.Len(t, res.Catalog.Items, 1)
	assert.Equal(t, "only", res.Catalog.Items[0].ID)
}

func TestSnapshot_MissingFileIsAnError(t *testing.T) {
	_, err := Snapshot{Path: filepath.Join(t.TempDir(), "none.db")}.Fetch(context.Background())
	assert.Error(t, err)
}
