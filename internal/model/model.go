package model

import (
	"math"
	"time"
)

// Item is one normalized showcase entry. Every field is a string after
// normalization; Title is never empty.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Tag   string `json:"tag"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	// Link is an external URL or NoLink.
	Link string `json:"link"`
	// Image is an optional texture reference; empty means placeholder fill.
	Image string `json:"image"`
}

// NoLink is the link sentinel meaning "this item has no external link".
const NoLink = "#"

// HasLink reports whether the item carries a usable external link.
func (it Item) HasLink() bool {
	return it.Link != "" && it.Link != NoLink
}

// Heading is the icon + title label used by list rows and the detail surface.
func (it Item) Heading() string {
	if it.Icon == "" {
		return it.Title
	}
	return it.Icon + " " + it.Title
}

type Meta struct {
	DefaultLink string `json:"defaultLink,omitempty"`
}

// Catalog is one catalog load: replaced wholesale on reload.
type Catalog struct {
	Meta  Meta   `json:"meta"`
	Items []Item `json:"items"`
}

func (c Catalog) ItemByID(id string) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Vec3 is a point or euler rotation in meters / radians.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

// ManhattanDelta is the sum of per-axis absolute differences.
func (v Vec3) ManhattanDelta(o Vec3) float64 {
	return math.Abs(v.X-o.X) + math.Abs(v.Y-o.Y) + math.Abs(v.Z-o.Z)
}

// Pose is a camera pose: position in meters, orientation as euler angles.
type Pose struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
}

// Size is a card footprint in real-world meters.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlacedCard is one item positioned on the ring. Facing is always toward the
// viewer; the renderer re-evaluates the look-at every frame.
type PlacedCard struct {
	Item     Item    `json:"item"`
	Index    int     `json:"index"`
	Position Vec3    `json:"position"`
	Size     Size    `json:"size"`
	Angle    float64 `json:"angle"`
	Radius   float64 `json:"radius"`
}

// Animation describes a tween on one card. Position values are offsets from
// the card's placement; scale values are absolute.
type Animation struct {
	Name      string        `json:"name"`
	Property  string        `json:"property"` // "position" or "scale"
	From      Vec3          `json:"from"`
	To        Vec3          `json:"to"`
	Duration  time.Duration `json:"duration"`
	Easing    string        `json:"easing"`
	Alternate bool          `json:"alternate"`
	// Repeat is the loop count; RepeatForever loops until the card is destroyed.
	Repeat int `json:"repeat"`
}

const RepeatForever = -1
