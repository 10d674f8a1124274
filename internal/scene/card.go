package scene

import (
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

type ElementKind string

const (
	ElemPanel   ElementKind = "panel"
	ElemTexture ElementKind = "texture"
	ElemBar     ElementKind = "bar"
	ElemIcon    ElementKind = "icon"
	ElemTitle   ElementKind = "title"
	ElemTag     ElementKind = "tag"
	ElemHint    ElementKind = "hint"
)

// Element is a flat sub-element of a card: a rectangle (color or texture) or
// a text label. Offsets are relative to the card center; larger Z draws on top.
type Element struct {
	Kind   ElementKind `json:"kind"`
	Offset model.Vec3  `json:"offset"`
	Size   model.Size  `json:"size,omitzero"`
	Color  string      `json:"color,omitempty"`
	Image  string      `json:"image,omitempty"`
	Text   string      `json:"text,omitempty"`
	Z      int         `json:"z"`
}

// Card is one camera-facing card ready to hand to a renderer.
type Card struct {
	ID       string     `json:"id"`
	Index    int        `json:"index"`
	Position model.Vec3 `json:"position"`
	Size     model.Size `json:"size"`
	Elements []Element  `json:"elements"`
}

const (
	panelColor = "#111827"
	textColor  = "#ffffff"
	mutedColor = "#9ca3af"
	HintText   = "Tap"
)

// ComposeCard builds the visual stack for a placed card. Element geometry is
// proportional to the card size so scaled-down rings keep their look.
func ComposeCard(pc model.PlacedCard) Card {
	w, h := pc.Size.Width, pc.Size.Height
	it := pc.Item

	els := make([]Element, 0, 7)
	els = append(els, Element{
		Kind:  ElemPanel,
		Size:  pc.Size,
		Color: panelColor,
		Z:     0,
	})
	if it.Image != "" {
		els = append(els, Element{
			Kind:  ElemTexture,
			Size:  model.Size{Width: w * 0.96, Height: h * 0.94},
			Image: it.Image,
			Z:     1,
		})
	}
	els = append(els,
		Element{
			Kind:   ElemBar,
			Offset: model.Vec3{Y: h*0.5 - h*0.04},
			Size:   model.Size{Width: w, Height: h * 0.08},
			Color:  it.Color,
			Z:      2,
		},
		Element{
			Kind:   ElemIcon,
			Offset: model.Vec3{X: -w * 0.38, Y: h * 0.18},
			Text:   it.Icon,
			Color:  textColor,
			Z:      3,
		},
		Element{
			Kind:   ElemTitle,
			Offset: model.Vec3{X: -w * 0.28, Y: h * 0.18},
			Text:   it.Title,
			Color:  textColor,
			Z:      3,
		},
		Element{
			Kind:   ElemTag,
			Offset: model.Vec3{X: -w * 0.42, Y: -h * 0.05},
			Text:   it.Tag,
			Color:  it.Color,
			Z:      3,
		},
		Element{
			Kind:   ElemHint,
			Offset: model.Vec3{X: w * 0.36, Y: -h * 0.36},
			Text:   HintText,
			Color:  mutedColor,
			Z:      3,
		},
	)

	return Card{
		ID:       it.ID,
		Index:    pc.Index,
		Position: pc.Position,
		Size:     pc.Size,
		Elements: els,
	}
}
