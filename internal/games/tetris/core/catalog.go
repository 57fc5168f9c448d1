package core

import (
	"fmt"
	"strings"
)

// Kind identifies one of the seven piece templates.
type Kind uint8

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
	KindCount // Sentinel value for iteration
)

// String returns the single-letter piece name.
func (k Kind) String() string {
	if k < KindCount {
		return catalog[k].Name
	}
	return "?"
}

// ParseKind converts a piece letter (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, t := range catalog {
		if strings.EqualFold(t.Name, s) {
			return t.Kind, true
		}
	}
	return KindI, false
}

// Template is the static definition of a piece kind.
type Template struct {
	Kind  Kind
	Name  string
	Shape Shape
	Color Color
}

// catalog is indexed by Kind and never mutated after init.
var catalog = [KindCount]Template{
	{
		Kind: KindI, Name: "I", Color: ColorRed,
		Shape: Shape{
			{0, 0, 0, 0},
			{1, 1, 1, 1},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
	},
	{
		Kind: KindO, Name: "O", Color: ColorYellow,
		Shape: Shape{
			{1, 1},
			{1, 1},
		},
	},
	{
		Kind: KindT, Name: "T", Color: ColorGreen,
		Shape: Shape{
			{0, 1, 0},
			{1, 1, 1},
			{0, 0, 0},
		},
	},
	{
		Kind: KindS, Name: "S", Color: ColorBlue,
		Shape: Shape{
			{0, 1, 1},
			{1, 1, 0},
			{0, 0, 0},
		},
	},
	{
		Kind: KindZ, Name: "Z", Color: ColorCyan,
		Shape: Shape{
			{1, 1, 0},
			{0, 1, 1},
			{0, 0, 0},
		},
	},
	{
		Kind: KindJ, Name: "J", Color: ColorPink,
		Shape: Shape{
			{1, 0, 0},
			{1, 1, 1},
			{0, 0, 0},
		},
	},
	{
		Kind: KindL, Name: "L", Color: ColorPurple,
		Shape: Shape{
			{0, 0, 1},
			{1, 1, 1},
			{0, 0, 0},
		},
	},
}

func init() {
	if err := validateCatalog(); err != nil {
		panic(err)
	}
}

// validateCatalog checks that every template is square and fits the board.
// A failure here is a build-time mistake in the table above.
func validateCatalog() error {
	for i, t := range catalog {
		if t.Kind != Kind(i) {
			return fmt.Errorf("tetris: template %s stored at index %d", t.Name, i)
		}
		n := t.Shape.Size()
		if n < 2 || n > 4 || n > Width {
			return fmt.Errorf("tetris: template %s has invalid size %d", t.Name, n)
		}
		for _, row := range t.Shape {
			if len(row) != n {
				return fmt.Errorf("tetris: template %s is not square", t.Name)
			}
		}
		if len(t.Shape.Blocks()) != 4 {
			return fmt.Errorf("tetris: template %s must have 4 blocks", t.Name)
		}
	}
	return nil
}

// TemplateFor returns the template of a kind. The returned shape is a copy.
func TemplateFor(k Kind) Template {
	t := catalog[k%KindCount]
	t.Shape = t.Shape.Clone()
	return t
}

// Templates returns copies of all seven templates in Kind order.
func Templates() []Template {
	out := make([]Template, 0, KindCount)
	for k := range KindCount {
		out = append(out, TemplateFor(k))
	}
	return out
}
