package catalog

import (
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"

	"github.com/google/uuid"
)

// Defaults applied to blank or missing fields.
const (
	DefaultTitle = "Untitled exhibit"
	DefaultTag   = "Exhibit"
	DefaultIcon  = "✨"
	DefaultColor = "#00d2ff"

	// DescriptionPlaceholder is shown by detail surfaces for items without a description.
	DescriptionPlaceholder = "Description coming soon."
)

// field is one row of the normalization schema: the raw key, where the value
// lands, and the default used when the raw value is not a non-blank string.
type field struct {
	key  string
	set  func(*model.Item, string)
	dflt func(model.Meta) string
}

func constant(s string) func(model.Meta) string {
	return func(model.Meta) string { return s }
}

// schema lists every Item field. id has no static default: blanks are
// filled by the Normalizer's generator so that ids stay unique per load.
var schema = []field{
	{key: "id", set: func(it *model.Item, v string) { it.ID = v }, dflt: constant("")},
	{key: "title", set: func(it *model.Item, v string) { it.Title = v }, dflt: constant(DefaultTitle)},
	{key: "desc", set: func(it *model.Item, v string) { it.Desc = v }, dflt: constant("")},
	{key: "tag", set: func(it *model.Item, v string) { it.Tag = v }, dflt: constant(DefaultTag)},
	{key: "icon", set: func(it *model.Item, v string) { it.Icon = v }, dflt: constant(DefaultIcon)},
	{key: "color", set: func(it *model.Item, v string) { it.Color = v }, dflt: constant(DefaultColor)},
	{key: "link", set: func(it *model.Item, v string) { it.Link = v }, dflt: func(m model.Meta) string {
		if m.DefaultLink != "" {
			return m.DefaultLink
		}
		return model.NoLink
	}},
	{key: "image", set: func(it *model.Item, v string) { it.Image = v }, dflt: constant("")},
}

// Normalizer turns raw documents into catalogs.
type Normalizer struct {
	// NewID generates ids for items without one. Defaults to a uuid-based id.
	NewID func() string
}

func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "item_" + id.String()
}

// Normalize applies the default normalizer.
func Normalize(doc Document) model.Catalog {
	return Normalizer{}.Normalize(doc)
}

// Normalize builds a catalog from doc. Non-object item records are skipped.
// Blank ids, and ids already used earlier in the same load, are replaced with
// generated ones.
func (n Normalizer) Normalize(doc Document) model.Catalog {
	newID := n.NewID
	if newID == nil {
		newID = newItemID
	}

	meta := model.Meta{DefaultLink: stringValue(doc.Meta, "defaultLink", "")}
	out := model.Catalog{Meta: meta, Items: make([]model.Item, 0, len(doc.Items))}
	seen := map[string]bool{}

	for _, rawAny := range doc.Items {
		raw, ok := rawAny.(map[string]any)
		if !ok {
			continue
		}
		var it model.Item
		for _, f := range schema {
			f.set(&it, stringValue(raw, f.key, f.dflt(meta)))
		}
		for it.ID == "" || seen[it.ID] {
			it.ID = newID()
		}
		if strings.TrimSpace(it.Title) == "" {
			continue
		}
		seen[it.ID] = true
		out.Items = append(out.Items, it)
	}
	return out
}

// stringValue returns raw[key] when it is a string with non-blank content,
// otherwise fallback. The value itself passes through untrimmed.
func stringValue(raw map[string]any, key, fallback string) string {
	if raw == nil {
		return fallback
	}
	s, ok := raw[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
