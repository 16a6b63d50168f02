// Package cpp emits the resolved style table as C++ declarations,
// one header and one translation unit per input module. Output is
// deterministic: rerunning over unchanged input produces byte
// identical files.
package cpp

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cardaba/tdesktop/internal/assets"
	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/registry"
)

const banner = "// Generated by stylec, do not edit.\n"

type Generator struct {
	reg    *registry.Registry
	outDir string
}

func New(reg *registry.Registry, outDir string) *Generator {
	return &Generator{reg: reg, outDir: outDir}
}

// Generate writes style_<module>.h and style_<module>.cpp for every
// module that declared a type or value, returning the written paths.
func (g *Generator) Generate() ([]string, error) {
	modules, err := g.collectModules()
	if err != nil {
		return nil, err
	}

	var written []string
	for _, module := range modules {
		header := filepath.Join(g.outDir, "style_"+module.name+".h")
		unit := filepath.Join(g.outDir, "style_"+module.name+".cpp")

		if err := writeFileAtomic(header, g.renderHeader(module)); err != nil {
			return nil, err
		}
		if err := writeFileAtomic(unit, g.renderUnit(module)); err != nil {
			return nil, err
		}
		written = append(written, header, unit)
	}
	return written, nil
}

// moduleOutput is one module's generation plan: nominal structs in
// dependency order, synthesized shapes for anonymous and widened
// values, and every value's C++ type and initializer.
type moduleOutput struct {
	name    string
	imports []string
	types   []*registry.StructType
	shapes  *shapeSet
	values  []*valueOutput
}

type valueOutput struct {
	name     string
	cppType  string
	initExpr string
	fields   []string // one initializer per line for structured values
}

func (g *Generator) collectModules() ([]*moduleOutput, error) {
	byModule := make(map[string]*moduleOutput)
	var order []*moduleOutput

	lookup := func(module *ast.SourceModule) *moduleOutput {
		name := "style"
		if module != nil {
			name = module.Loc.Name
		}
		out, ok := byModule[name]
		if !ok {
			out = &moduleOutput{name: name, shapes: newShapeSet()}
			if module != nil {
				out.imports = importNames(module)
			}
			byModule[name] = out
			order = append(order, out)
		}
		return out
	}

	for _, st := range g.reg.Types() {
		out := lookup(st.Module)
		out.types = append(out.types, st)
	}
	for _, entry := range g.reg.Values() {
		if entry.State != registry.STATE_RESOLVED {
			return nil, fmt.Errorf("value '%s' was not resolved before generation", entry.Name)
		}
		out := lookup(entry.Module)

		cppType, expr := g.render(entry.Result, "Style_"+entry.Name, out.shapes)
		value := &valueOutput{
			name:     entry.Name,
			cppType:  cppType,
			initExpr: expr,
		}
		if entry.Result.IsStruct {
			for _, field := range orderedFields(entry.Result) {
				_, fieldExpr := g.render(field.Value, cppType+"_"+field.Name, newShapeSet())
				value.fields = append(value.fields, fieldExpr)
			}
		}
		out.values = append(out.values, value)
	}

	for _, out := range byModule {
		out.types = orderTypes(out.types)
	}
	return order, nil
}

func importNames(module *ast.SourceModule) []string {
	names := make([]string, len(module.Imports))
	for i, using := range module.Imports {
		path := using.Path.Name()
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		names[i] = "style_" + stem + ".h"
	}
	sort.Strings(names)
	return names
}

// orderTypes sorts a module's structs so every struct appears after
// the structs its fields embed.
func orderTypes(types []*registry.StructType) []*registry.StructType {
	byName := make(map[string]*registry.StructType, len(types))
	for _, st := range types {
		byName[st.Name] = st
	}

	visited := make(map[string]bool, len(types))
	ordered := make([]*registry.StructType, 0, len(types))

	var visit func(st *registry.StructType)
	visit = func(st *registry.StructType) {
		if visited[st.Name] {
			return
		}
		visited[st.Name] = true
		for _, field := range st.Fields {
			if !field.IsStruct() {
				continue
			}
			if dep, ok := byName[field.TypeName]; ok {
				visit(dep)
			}
		}
		ordered = append(ordered, st)
	}
	for _, st := range types {
		visit(st)
	}
	return ordered
}

func (g *Generator) renderHeader(module *moduleOutput) []byte {
	var b strings.Builder
	b.WriteString(banner)
	b.WriteString("#pragma once\n\n")
	b.WriteString("#include \"style_core.h\"\n")
	for _, name := range module.imports {
		fmt.Fprintf(&b, "#include %q\n", name)
	}
	b.WriteString("\nnamespace st {\n")

	for _, st := range module.types {
		b.WriteString("\n")
		fmt.Fprintf(&b, "struct %s {\n", st.Name)
		for _, field := range st.Fields {
			fmt.Fprintf(&b, "\t%s %s;\n", fieldCppType(field), field.Name)
		}
		b.WriteString("};\n")
	}
	for _, shape := range module.shapes.order {
		b.WriteString("\n")
		fmt.Fprintf(&b, "struct %s {\n", shape.name)
		for _, field := range shape.fields {
			fmt.Fprintf(&b, "\t%s %s;\n", field.cppType, field.name)
		}
		b.WriteString("};\n")
	}

	if len(module.values) > 0 {
		b.WriteString("\n")
	}
	for _, value := range module.values {
		fmt.Fprintf(&b, "extern const %s %s;\n", value.cppType, value.name)
	}

	b.WriteString("\n} // namespace st\n")
	return []byte(b.String())
}

func (g *Generator) renderUnit(module *moduleOutput) []byte {
	var b strings.Builder
	b.WriteString(banner)
	fmt.Fprintf(&b, "#include \"style_%s.h\"\n", module.name)
	b.WriteString("\nnamespace st {\n")

	for _, value := range module.values {
		b.WriteString("\n")
		if value.fields == nil {
			fmt.Fprintf(&b, "const %s %s = %s;\n", value.cppType, value.name, value.initExpr)
			continue
		}
		fmt.Fprintf(&b, "const %s %s = %s{\n", value.cppType, value.name, value.cppType)
		for _, field := range value.fields {
			fmt.Fprintf(&b, "\t%s,\n", field)
		}
		b.WriteString("};\n")
	}

	b.WriteString("\n} // namespace st\n")
	return []byte(b.String())
}

func fieldCppType(field *registry.StructField) string {
	if field.IsStruct() {
		return field.TypeName
	}
	return cppType(field.Builtin)
}

func cppType(kind registry.BuiltinKind) string {
	switch kind {
	case registry.KIND_INT, registry.KIND_PIXELS:
		return "int"
	case registry.KIND_BOOL:
		return "bool"
	case registry.KIND_DOUBLE:
		return "double"
	case registry.KIND_COLOR:
		return "style::color"
	case registry.KIND_ICON:
		return "style::icon"
	case registry.KIND_MARGINS:
		return "style::margins"
	case registry.KIND_SIZE:
		return "style::size"
	case registry.KIND_POINT:
		return "style::point"
	case registry.KIND_ALIGN:
		return "style::align"
	case registry.KIND_FONT:
		return "style::font"
	}
	return "int"
}

// render returns a value's C++ type name and initializer expression,
// registering any synthesized struct shapes it needs along the way.
// Values whose fields match their declared type exactly reuse the
// nominal struct; anonymous and widened values get a one-off
// Style_<name> shape.
func (g *Generator) render(value *registry.Value, synthName string, shapes *shapeSet) (string, string) {
	if !value.IsStruct {
		return cppType(value.Kind), scalarExpr(value)
	}

	typeName := synthName
	if value.Type != nil && shapeMatches(value, value.Type) {
		typeName = value.Type.Name
	}

	fields := orderedFields(value)
	cppTypes := make([]string, len(fields))
	exprs := make([]string, len(fields))
	for i, field := range fields {
		cppTypes[i], exprs[i] = g.render(field.Value, typeName+"_"+field.Name, shapes)
	}

	if typeName == synthName {
		shapes.add(typeName, fields, cppTypes)
	}
	return typeName, typeName + "{" + strings.Join(exprs, ", ") + "}"
}

// orderedFields lists a structured value's fields in emission order:
// declared type order first, then widened fields in first-assignment
// order. Anonymous values keep plain assignment order.
func orderedFields(value *registry.Value) []*registry.FieldValue {
	if value.Type == nil {
		return value.Fields
	}

	ordered := make([]*registry.FieldValue, 0, len(value.Fields))
	for _, field := range value.Type.Fields {
		if v := value.Field(field.Name); v != nil {
			ordered = append(ordered, &registry.FieldValue{Name: field.Name, Value: v})
		}
	}
	for _, field := range value.Fields {
		if value.Type.Field(field.Name) == nil {
			ordered = append(ordered, field)
		}
	}
	return ordered
}

// shapeMatches reports whether a value's resolved field table fits
// its nominal struct exactly, recursing into struct typed fields.
func shapeMatches(value *registry.Value, st *registry.StructType) bool {
	if len(value.Fields) != len(st.Fields) {
		return false
	}
	for _, field := range st.Fields {
		v := value.Field(field.Name)
		if v == nil {
			return false
		}
		if field.IsStruct() {
			if !v.IsStruct || v.Type == nil || v.Type.Name != field.TypeName || !shapeMatches(v, v.Type) {
				return false
			}
			continue
		}
		if v.IsStruct || v.Kind != field.Builtin {
			return false
		}
	}
	return true
}

func scalarExpr(value *registry.Value) string {
	switch value.Kind {
	case registry.KIND_INT, registry.KIND_PIXELS:
		return strconv.FormatInt(value.Int, 10)
	case registry.KIND_BOOL:
		return strconv.FormatBool(value.Bool)
	case registry.KIND_DOUBLE:
		return formatDouble(value.Double)
	case registry.KIND_COLOR:
		return colorExpr(value)
	case registry.KIND_MARGINS:
		m := value.Margins
		return fmt.Sprintf("style::margins(%d, %d, %d, %d)", m.Left, m.Top, m.Right, m.Bottom)
	case registry.KIND_SIZE:
		return fmt.Sprintf("style::size(%d, %d)", value.Size.Width, value.Size.Height)
	case registry.KIND_POINT:
		return fmt.Sprintf("style::point(%d, %d)", value.Point.X, value.Point.Y)
	case registry.KIND_ALIGN:
		return "style::al_" + value.Align.String()
	case registry.KIND_FONT:
		return fontExpr(value.Font)
	case registry.KIND_ICON:
		return iconExpr(value.Icon)
	}
	return "0"
}

// formatDouble keeps a decimal point so the emitted literal stays a
// double in C++.
func formatDouble(d float64) string {
	formatted := strconv.FormatFloat(d, 'g', -1, 64)
	if !strings.ContainsAny(formatted, ".eE") {
		formatted += "."
	}
	return formatted
}

func colorExpr(value *registry.Value) string {
	r, g, b, a := value.Color.RGBA8()
	return fmt.Sprintf("style::color(0x%02x, 0x%02x, 0x%02x, 0x%02x)", r, g, b, a)
}

var fontFlagOrder = []struct {
	flag registry.FontFlags
	name string
}{
	{registry.FONT_BOLD, "style::font_bold"},
	{registry.FONT_SEMIBOLD, "style::font_semibold"},
	{registry.FONT_ITALIC, "style::font_italic"},
	{registry.FONT_UNDERLINE, "style::font_underline"},
}

func fontExpr(font registry.Font) string {
	var flags []string
	for _, known := range fontFlagOrder {
		if font.Flags&known.flag != 0 {
			flags = append(flags, known.name)
		}
	}
	if flags == nil {
		return fmt.Sprintf("style::font(%d, 0)", font.SizePx)
	}
	return fmt.Sprintf("style::font(%d, %s)", font.SizePx, strings.Join(flags, " | "))
}

func iconExpr(icon *registry.Icon) string {
	layers := make([]string, len(icon.Layers))
	for i, layer := range icon.Layers {
		layers[i] = layerExpr(layer)
	}
	return "style::icon({" + strings.Join(layers, ", ") + "})"
}

// layerExpr names the base asset file; the host discovers density
// variants by the @2x/@3x suffix convention at load time.
func layerExpr(layer *registry.IconLayer) string {
	colorValue := &registry.Value{Kind: registry.KIND_COLOR, Color: layer.Color}
	expr := fmt.Sprintf("style::icon_layer(%q, %s", layer.Asset.Files[0], colorExpr(colorValue))

	asset := layer.Asset
	if asset.ForcedWidth > 0 {
		expr += fmt.Sprintf(", style::forced_size(%d, %d)", asset.ForcedWidth, asset.ForcedHeight)
	}
	if asset.Flip != assets.FLIP_NONE {
		expr += ", style::" + asset.Flip.String()
	}
	return expr + ")"
}

// shapeSet collects the synthesized struct declarations a module's
// anonymous and widened values need, in first-use order.
type shapeSet struct {
	names map[string]bool
	order []*synthShape
}

type synthShape struct {
	name   string
	fields []*synthField
}

type synthField struct {
	name    string
	cppType string
}

func newShapeSet() *shapeSet {
	return &shapeSet{names: make(map[string]bool)}
}

func (s *shapeSet) add(name string, fields []*registry.FieldValue, cppTypes []string) {
	if s.names[name] {
		return
	}
	s.names[name] = true

	shape := &synthShape{name: name}
	for i, field := range fields {
		shape.fields = append(shape.fields, &synthField{name: field.Name, cppType: cppTypes[i]})
	}
	s.order = append(s.order, shape)
}
