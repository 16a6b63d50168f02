package registry

import (
	"fmt"
	"log"

	"github.com/cardaba/tdesktop/internal/assets"
	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/palette"
)

type Margins struct {
	Left, Top, Right, Bottom int
}

type Size struct {
	Width, Height int
}

type Point struct {
	X, Y int
}

type Align int

const (
	ALIGN_TOP_LEFT Align = iota
	ALIGN_TOP
	ALIGN_TOP_RIGHT
	ALIGN_LEFT
	ALIGN_CENTER
	ALIGN_RIGHT
	ALIGN_BOTTOM_LEFT
	ALIGN_BOTTOM
	ALIGN_BOTTOM_RIGHT
)

var ALIGN_BY_NAME map[string]Align = map[string]Align{
	"topleft":     ALIGN_TOP_LEFT,
	"top":         ALIGN_TOP,
	"topright":    ALIGN_TOP_RIGHT,
	"left":        ALIGN_LEFT,
	"center":      ALIGN_CENTER,
	"right":       ALIGN_RIGHT,
	"bottomleft":  ALIGN_BOTTOM_LEFT,
	"bottom":      ALIGN_BOTTOM,
	"bottomright": ALIGN_BOTTOM_RIGHT,
}

func (align Align) String() string {
	switch align {
	case ALIGN_TOP_LEFT:
		return "topleft"
	case ALIGN_TOP:
		return "top"
	case ALIGN_TOP_RIGHT:
		return "topright"
	case ALIGN_LEFT:
		return "left"
	case ALIGN_CENTER:
		return "center"
	case ALIGN_RIGHT:
		return "right"
	case ALIGN_BOTTOM_LEFT:
		return "bottomleft"
	case ALIGN_BOTTOM:
		return "bottom"
	case ALIGN_BOTTOM_RIGHT:
		return "bottomright"
	default:
		log.Fatalf("String() method not defined for the following align place '%d'", align)
	}
	return ""
}

type FontFlags int

const (
	FONT_BOLD FontFlags = 1 << iota
	FONT_SEMIBOLD
	FONT_ITALIC
	FONT_UNDERLINE
)

var FONT_FLAG_BY_NAME map[string]FontFlags = map[string]FontFlags{
	"bold":      FONT_BOLD,
	"semibold":  FONT_SEMIBOLD,
	"italic":    FONT_ITALIC,
	"underline": FONT_UNDERLINE,
}

type Font struct {
	SizePx int
	Flags  FontFlags
}

// Icon is a resolved multi-layer icon. Layers keep source order and
// are painted bottom to top by the host.
type Icon struct {
	Layers []*IconLayer
}

type IconLayer struct {
	Asset *assets.Asset
	Color *palette.Color
}

type ValueState int

const (
	STATE_UNRESOLVED ValueState = iota
	STATE_IN_PROGRESS
	STATE_RESOLVED
)

// ValueEntry tracks one declared value from registration through
// memoized resolution.
type ValueEntry struct {
	Name   string
	Decl   *ast.ValueDecl
	Module *ast.SourceModule
	State  ValueState
	Result *Value
}

// Value is a fully resolved style value. Scalar kinds use the
// payload field matching Kind; structured values use Type (nil for
// anonymous shapes) plus the ordered field table.
type Value struct {
	Kind     BuiltinKind
	IsStruct bool

	Int     int64
	Bool    bool
	Double  float64
	Color   *palette.Color
	Icon    *Icon
	Margins Margins
	Size    Size
	Point   Point
	Align   Align
	Font    Font

	Type   *StructType
	Fields []*FieldValue
}

type FieldValue struct {
	Name  string
	Value *Value
}

func (v *Value) Field(name string) *Value {
	for _, field := range v.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return nil
}

// SetField overrides an existing field or appends a new one at the
// end, keeping first-assignment order stable.
func (v *Value) SetField(name string, value *Value) {
	for _, field := range v.Fields {
		if field.Name == name {
			field.Value = value
			return
		}
	}
	v.Fields = append(v.Fields, &FieldValue{Name: name, Value: value})
}

// Clone deep-copies the field table so a derived value can be
// mutated without touching its base. Colors, icons and struct types
// are immutable once built and stay shared.
func (v *Value) Clone() *Value {
	clone := *v
	if v.Fields != nil {
		clone.Fields = make([]*FieldValue, len(v.Fields))
		for i, field := range v.Fields {
			clone.Fields[i] = &FieldValue{Name: field.Name, Value: field.Value.Clone()}
		}
	}
	return &clone
}

func (v *Value) String() string {
	if v.IsStruct {
		if v.Type != nil {
			return fmt.Sprintf("%s%v", v.Type.Name, v.Fields)
		}
		return fmt.Sprintf("%v", v.Fields)
	}
	switch v.Kind {
	case KIND_INT, KIND_PIXELS:
		return fmt.Sprintf("%d", v.Int)
	case KIND_BOOL:
		return fmt.Sprintf("%v", v.Bool)
	case KIND_DOUBLE:
		return fmt.Sprintf("%g", v.Double)
	case KIND_COLOR:
		return v.Color.Hex()
	case KIND_ALIGN:
		return v.Align.String()
	default:
		return v.Kind.String()
	}
}
