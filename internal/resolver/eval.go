package resolver

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/cardaba/tdesktop/internal/assets"
	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/lexer/token"
	"github.com/cardaba/tdesktop/internal/palette"
	"github.com/cardaba/tdesktop/internal/registry"
)

func (r *Resolver) evalExpr(
	node *ast.Node,
	expected *registry.StructField,
	module *ast.SourceModule,
) (*registry.Value, error) {
	switch node.Kind {
	case ast.KIND_LITERAL_EXPR:
		return r.evalLiteral(node.Node.(*ast.LiteralExpr), module)
	case ast.KIND_ID_EXPR:
		return r.evalIdRef(node.Node.(*ast.IdExpr), expected, module)
	case ast.KIND_CONSTRUCTOR_EXPR:
		return r.evalConstructor(node.Node.(*ast.ConstructorExpr), module)
	case ast.KIND_ICON_EXPR:
		return r.evalIcon(node.Node.(*ast.IconExpr), module)
	default:
		log.Fatalf("unimplemented expression kind on resolver: %v", node.Kind)
	}
	return nil, nil
}

func (r *Resolver) evalLiteral(literal *ast.LiteralExpr, module *ast.SourceModule) (*registry.Value, error) {
	lexeme := string(literal.Value)

	switch literal.Kind {
	case token.INT_LITERAL:
		number, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return nil, r.invalidLiteral(literal, lexeme, module)
		}
		return &registry.Value{Kind: registry.KIND_INT, Int: number}, nil
	case token.PIXELS_LITERAL:
		number, err := strconv.ParseInt(strings.TrimSuffix(lexeme, "px"), 10, 64)
		if err != nil {
			return nil, r.invalidLiteral(literal, lexeme, module)
		}
		return &registry.Value{Kind: registry.KIND_PIXELS, Int: number}, nil
	case token.FLOAT_LITERAL:
		number, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, r.invalidLiteral(literal, lexeme, module)
		}
		return &registry.Value{Kind: registry.KIND_DOUBLE, Double: number}, nil
	case token.TRUE_BOOL_LITERAL:
		return &registry.Value{Kind: registry.KIND_BOOL, Bool: true}, nil
	case token.FALSE_BOOL_LITERAL:
		return &registry.Value{Kind: registry.KIND_BOOL, Bool: false}, nil
	case token.STRING_LITERAL:
		stringOutsideIcon := diagnostics.Diag{
			Kind:    diagnostics.TYPE_MISMATCH_ERROR,
			Pos:     literal.Pos,
			Message: fmt.Sprintf("string %q is not a style value, strings only name icon layer paths", lexeme),
		}
		return nil, r.reportAndSave(stringOutsideIcon, module)
	default:
		log.Fatalf("unimplemented literal kind on resolver: %s", literal.Kind)
	}
	return nil, nil
}

func (r *Resolver) invalidLiteral(literal *ast.LiteralExpr, lexeme string, module *ast.SourceModule) error {
	malformed := diagnostics.Diag{
		Kind:    diagnostics.PARSE_ERROR,
		Pos:     literal.Pos,
		Message: fmt.Sprintf("malformed %s '%s'", literal.Kind, lexeme),
	}
	return r.reportAndSave(malformed, module)
}

// evalIdRef resolves a bare identifier. In a color position the
// palette wins over declared values; everywhere else declared
// values win and palette colors are the fallback.
func (r *Resolver) evalIdRef(
	idExpr *ast.IdExpr,
	expected *registry.StructField,
	module *ast.SourceModule,
) (*registry.Value, error) {
	name := idExpr.Name.Name()

	colorExpected := expected != nil && !expected.IsStruct() && expected.Builtin == registry.KIND_COLOR
	if colorExpected {
		if color, ok := r.resolveColor(name); ok {
			return &registry.Value{Kind: registry.KIND_COLOR, Color: color}, nil
		}
		if entry, err := r.reg.LookupValue(name); err == nil {
			return r.resolveReference(entry)
		}
		undefinedColor := diagnostics.Diag{
			Kind:    diagnostics.UNDEFINED_COLOR_ERROR,
			Pos:     idExpr.Name.Pos,
			Message: fmt.Sprintf("color '%s' is not defined", name),
		}
		return nil, r.reportAndSave(undefinedColor, module)
	}

	if entry, err := r.reg.LookupValue(name); err == nil {
		return r.resolveReference(entry)
	}
	if color, ok := r.resolveColor(name); ok {
		return &registry.Value{Kind: registry.KIND_COLOR, Color: color}, nil
	}

	undefinedName := diagnostics.Diag{
		Kind:    diagnostics.UNDEFINED_NAME_ERROR,
		Pos:     idExpr.Name.Pos,
		Message: fmt.Sprintf("name '%s' is not defined", name),
	}
	return nil, r.reportAndSave(undefinedName, module)
}

func (r *Resolver) resolveReference(entry *registry.ValueEntry) (*registry.Value, error) {
	value, err := r.resolveEntry(entry)
	if err != nil {
		return nil, err
	}
	// References hand out copies so no dependent can alias into
	// the memoized result.
	return value.Clone(), nil
}

func (r *Resolver) resolveColor(name string) (*palette.Color, bool) {
	if r.colors == nil {
		return nil, false
	}
	return r.colors.ResolveColor(name)
}

func (r *Resolver) evalConstructor(ctor *ast.ConstructorExpr, module *ast.SourceModule) (*registry.Value, error) {
	switch ctor.Head {
	case token.MARGINS_TYPE:
		args, err := r.numericArgs(ctor, 4, module)
		if err != nil {
			return nil, err
		}
		margins := registry.Margins{Left: args[0], Top: args[1], Right: args[2], Bottom: args[3]}
		return &registry.Value{Kind: registry.KIND_MARGINS, Margins: margins}, nil
	case token.SIZE_TYPE:
		args, err := r.numericArgs(ctor, 2, module)
		if err != nil {
			return nil, err
		}
		return &registry.Value{Kind: registry.KIND_SIZE, Size: registry.Size{Width: args[0], Height: args[1]}}, nil
	case token.POINT_TYPE:
		args, err := r.numericArgs(ctor, 2, module)
		if err != nil {
			return nil, err
		}
		return &registry.Value{Kind: registry.KIND_POINT, Point: registry.Point{X: args[0], Y: args[1]}}, nil
	case token.ALIGN_TYPE:
		return r.evalAlign(ctor, module)
	case token.FONT_TYPE:
		return r.evalFont(ctor, module)
	default:
		log.Fatalf("unimplemented constructor head on resolver: %s", ctor.Head)
	}
	return nil, nil
}

// numericArgs evaluates a fixed-arity geometry constructor's
// arguments. Plain ints and pixel counts are interchangeable here
// since geometry is always measured in pixels.
func (r *Resolver) numericArgs(ctor *ast.ConstructorExpr, arity int, module *ast.SourceModule) ([]int, error) {
	if len(ctor.Args) != arity {
		wrongArity := diagnostics.Diag{
			Kind:    diagnostics.TYPE_MISMATCH_ERROR,
			Pos:     ctor.Pos,
			Message: fmt.Sprintf("%s expects %d arguments, got %d", ctor.Head, arity, len(ctor.Args)),
		}
		return nil, r.reportAndSave(wrongArity, module)
	}

	args := make([]int, len(ctor.Args))
	for i, arg := range ctor.Args {
		number, err := r.numericArg(ctor.Head, arg, module)
		if err != nil {
			return nil, err
		}
		args[i] = number
	}
	return args, nil
}

func (r *Resolver) numericArg(head token.Kind, arg *ast.Node, module *ast.SourceModule) (int, error) {
	value, err := r.evalExpr(arg, nil, module)
	if err != nil {
		return 0, err
	}
	if value.IsStruct || (value.Kind != registry.KIND_INT && value.Kind != registry.KIND_PIXELS) {
		notNumeric := diagnostics.Diag{
			Kind:    diagnostics.TYPE_MISMATCH_ERROR,
			Pos:     arg.Pos(),
			Message: fmt.Sprintf("%s expects int or pixels arguments, got %s", head, describeValue(value)),
		}
		return 0, r.reportAndSave(notNumeric, module)
	}
	return int(value.Int), nil
}

func (r *Resolver) evalAlign(ctor *ast.ConstructorExpr, module *ast.SourceModule) (*registry.Value, error) {
	if len(ctor.Args) != 1 || !ctor.Args[0].IsId() {
		wrongArgs := diagnostics.Diag{
			Kind:    diagnostics.TYPE_MISMATCH_ERROR,
			Pos:     ctor.Pos,
			Message: "align expects exactly one alignment name, e.g. align(center)",
		}
		return nil, r.reportAndSave(wrongArgs, module)
	}

	name := ctor.Args[0].Node.(*ast.IdExpr).Name
	align, ok := registry.ALIGN_BY_NAME[name.Name()]
	if !ok {
		unknownAlign := diagnostics.Diag{
			Kind:    diagnostics.TYPE_MISMATCH_ERROR,
			Pos:     name.Pos,
			Message: fmt.Sprintf("unknown alignment '%s'", name.Name()),
		}
		return nil, r.reportAndSave(unknownAlign, module)
	}
	return &registry.Value{Kind: registry.KIND_ALIGN, Align: align}, nil
}

// evalFont builds a font from a size argument plus zero or more
// flag names, e.g. font(13px, semibold, italic).
func (r *Resolver) evalFont(ctor *ast.ConstructorExpr, module *ast.SourceModule) (*registry.Value, error) {
	if len(ctor.Args) == 0 {
		missingSize := diagnostics.Diag{
			Kind:    diagnostics.TYPE_MISMATCH_ERROR,
			Pos:     ctor.Pos,
			Message: "font expects a size argument, e.g. font(13px, semibold)",
		}
		return nil, r.reportAndSave(missingSize, module)
	}

	size, err := r.numericArg(ctor.Head, ctor.Args[0], module)
	if err != nil {
		return nil, err
	}

	font := registry.Font{SizePx: size}
	for _, arg := range ctor.Args[1:] {
		if !arg.IsId() {
			notAFlag := diagnostics.Diag{
				Kind:    diagnostics.TYPE_MISMATCH_ERROR,
				Pos:     arg.Pos(),
				Message: "font flags must be names, e.g. bold, semibold, italic, underline",
			}
			return nil, r.reportAndSave(notAFlag, module)
		}

		name := arg.Node.(*ast.IdExpr).Name
		flag, ok := registry.FONT_FLAG_BY_NAME[name.Name()]
		if !ok {
			unknownFlag := diagnostics.Diag{
				Kind:    diagnostics.TYPE_MISMATCH_ERROR,
				Pos:     name.Pos,
				Message: fmt.Sprintf("unknown font flag '%s'", name.Name()),
			}
			return nil, r.reportAndSave(unknownFlag, module)
		}
		font.Flags |= flag
	}
	return &registry.Value{Kind: registry.KIND_FONT, Font: font}, nil
}

var iconColorField = &registry.StructField{Name: "color", Builtin: registry.KIND_COLOR}

func (r *Resolver) evalIcon(icon *ast.IconExpr, module *ast.SourceModule) (*registry.Value, error) {
	specs := make([]*assets.Spec, len(icon.Layers))
	colors := make([]*registry.Value, len(icon.Layers))

	for i, layer := range icon.Layers {
		specs[i] = assets.ParseSpec(layer.Path.Name())

		color, err := r.evalExpr(layer.Color, iconColorField, module)
		if err != nil {
			return nil, err
		}
		if color.IsStruct || color.Kind != registry.KIND_COLOR {
			notAColor := diagnostics.Diag{
				Kind:    diagnostics.TYPE_MISMATCH_ERROR,
				Pos:     layer.Color.Pos(),
				Message: fmt.Sprintf("icon layer %q expects a color, got %s", layer.Path.Name(), describeValue(color)),
			}
			return nil, r.reportAndSave(notAColor, module)
		}
		colors[i] = color
	}

	resolved, err := r.icons.ResolveLayers(specs)
	if err != nil {
		kind := diagnostics.ASSET_NOT_FOUND_ERROR
		if errors.Is(err, assets.ERR_MODIFIER_INCOMPATIBLE) {
			kind = diagnostics.MODIFIER_INCOMPATIBLE_ERROR
		}
		badAsset := diagnostics.Diag{
			Kind:    kind,
			Pos:     icon.Pos,
			Message: err.Error(),
		}
		return nil, r.reportAndSave(badAsset, module)
	}

	layers := make([]*registry.IconLayer, len(resolved))
	for i, asset := range resolved {
		layers[i] = &registry.IconLayer{Asset: asset, Color: colors[i].Color}
	}
	return &registry.Value{Kind: registry.KIND_ICON, Icon: &registry.Icon{Layers: layers}}, nil
}
