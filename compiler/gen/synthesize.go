package gen

import (
	"bytes"
	"go/types"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/oneshot/marker"
)

// runtimePkg is the import path of the runtime package generated code
// targets: the Store capability and the Scheduler.
const runtimePkg = "github.com/syssam/oneshot"

// Artifact is one generated file: its rendered content plus the source
// files it was derived from, the dependency edges the writer records for
// incremental invalidation.
type Artifact struct {
	Package string
	Name    string
	Content []byte
	Deps    []string
}

// Synthesize emits the two artifacts for a validated group: the consume
// operations file and the dispatcher file. Both are pure functions of the
// group and its field configs; rendering an unchanged group twice yields
// byte-identical content.
func Synthesize(c *Config, g *Group, cfgs []*FieldConfig) ([]*Artifact, error) {
	names := artifactNames(g)
	consume, err := render(genConsume(c, g, cfgs))
	if err != nil {
		return nil, NewGenerationError(g.Owner.Name, names[0], "render consume operations", err)
	}
	dispatch, err := render(genDispatch(c, g, cfgs))
	if err != nil {
		return nil, NewGenerationError(g.Owner.Name, names[1], "render dispatcher", err)
	}
	deps := g.SourceFiles()
	return []*Artifact{
		{Package: c.Package, Name: names[0], Content: consume, Deps: deps},
		{Package: c.Package, Name: names[1], Content: dispatch, Deps: deps},
	}, nil
}

// artifactNames returns the group's generated file names, consume file
// first.
func artifactNames(g *Group) []string {
	base := inflect.Underscore(g.Owner.Name)
	return []string{base + "_consume.go", base + "_dispatch.go"}
}

// dispatcherName returns the name of the group's generated dispatcher.
func dispatcherName(g *Group) string {
	return "Dispatch" + g.Owner.Name + "Effects"
}

func render(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// newFile creates a generated file with the header comment and one Source
// line per contributing file. Source lines carry base names only, so
// output is identical across checkouts.
func newFile(c *Config, g *Group) *jen.File {
	f := jen.NewFile(c.PkgName())
	f.HeaderComment(c.Header)
	for _, src := range g.SourceFiles() {
		f.HeaderComment("Source: " + filepath.Base(src))
	}
	return f
}

// genConsume emits one reset operation per field. Each is a pure state
// transition through the Store capability: replace the record with a copy
// whose marked field is nil, leaving every other field unchanged.
func genConsume(c *Config, g *Group, cfgs []*FieldConfig) *jen.File {
	f := newFile(c, g)
	for _, cfg := range cfgs {
		f.Commentf("%s resets %s.%s to nil after its one-shot effect has fired.",
			cfg.ConsumeName, g.Owner.Name, cfg.Field.Name)
		f.Func().Id(cfg.ConsumeName).
			Params(jen.Id("store").Qual(runtimePkg, "Store").Index(ownerType(g))).
			Block(
				jen.Id("store").Dot("Apply").Call(
					jen.Func().Params(jen.Id("s").Add(ownerType(g))).Add(ownerType(g)).Block(
						jen.Id("s").Dot(cfg.Field.Name).Op("=").Nil(),
						jen.Return(jen.Id("s")),
					),
				),
			)
	}
	return f
}

// genDispatch emits the unified dispatcher. For every field holding a
// pending value it launches exactly one keyed effect sequence; the key is
// the field's current value, so a sequence re-fires only when the value
// changes. A nil field releases its slot's key memory, so a value that was
// consumed and later posted again counts as a new pending event. The
// ordering policy decides whether the callback runs before or after the
// reset.
func genDispatch(c *Config, g *Group, cfgs []*FieldConfig) *jen.File {
	f := newFile(c, g)
	name := dispatcherName(g)
	params := []jen.Code{
		jen.Id("state").Add(ownerType(g)),
		jen.Id("store").Qual(runtimePkg, "Store").Index(ownerType(g)),
		jen.Id("sched").Op("*").Qual(runtimePkg, "Scheduler"),
	}
	for _, cfg := range cfgs {
		params = append(params, jen.Id(cfg.CallbackName).
			Func().Params(jen.Qual("context", "Context"), valueType(cfg.Field.Type)))
	}
	f.Commentf("%s fires the pending one-shot effects recorded on the state snapshot.", name)
	f.Comment("Each non-nil marked field schedules one effect sequence keyed by its current")
	f.Comment("value; sequences for different fields are independent and may interleave.")
	f.Comment("A nil field releases its slot, so the same value posted again later fires")
	f.Comment("a new sequence.")
	f.Func().Id(name).Params(params...).BlockFunc(func(b *jen.Group) {
		for _, cfg := range cfgs {
			b.Add(dispatchBlock(g, cfg))
		}
	})
	return f
}

func dispatchBlock(g *Group, cfg *FieldConfig) jen.Code {
	slot := g.Owner.PkgPath + "." + g.Owner.Name + "." + cfg.Field.Name
	value := jen.Id("state").Dot(cfg.Field.Name)
	if _, ok := cfg.Field.Type.Underlying().(*types.Pointer); ok {
		value = jen.Op("*").Add(value)
	}
	callback := jen.Id(cfg.CallbackName).Call(jen.Id("ctx"), jen.Id("value"))
	reset := jen.Id(cfg.ConsumeName).Call(jen.Id("store"))
	sequence := []jen.Code{callback, reset}
	if cfg.Policy == marker.ConsumeThenAction {
		sequence = []jen.Code{reset, callback}
	}
	return jen.If(jen.Id("state").Dot(cfg.Field.Name).Op("!=").Nil()).Block(
		jen.Id("value").Op(":=").Add(value),
		jen.Id("sched").Dot("Launch").Call(
			jen.Lit(slot),
			jen.Id("value"),
			jen.Func().Params(jen.Id("ctx").Qual("context", "Context")).Block(sequence...),
		),
	).Else().Block(
		jen.Id("sched").Dot("Forget").Call(jen.Lit(slot)),
	)
}

// ownerType returns a fresh reference to the owner record type.
// jen.Code values are mutable, so every use needs its own instance.
func ownerType(g *Group) *jen.Statement {
	return jen.Qual(g.Owner.PkgPath, g.Owner.Name)
}

// valueType is the unwrapped non-nil value type the effect callback
// receives: the pointee for pointer fields, the field type otherwise.
func valueType(t types.Type) *jen.Statement {
	if p, ok := t.Underlying().(*types.Pointer); ok {
		return typeCode(p.Elem())
	}
	return typeCode(t)
}

// typeCode maps a resolved Go type to jennifer code, registering imports
// for named types along the way.
func typeCode(t types.Type) *jen.Statement {
	switch t := t.(type) {
	case *types.Basic:
		return jen.Id(t.Name())
	case *types.Pointer:
		return jen.Op("*").Add(typeCode(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(typeCode(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(typeCode(t.Elem()))
	case *types.Map:
		return jen.Map(typeCode(t.Key())).Add(typeCode(t.Elem()))
	case *types.Chan:
		return jen.Chan().Add(typeCode(t.Elem()))
	case *types.Named:
		return namedCode(t.Obj())
	case *types.Interface:
		return jen.Any()
	default:
		if s, ok := aliasCode(t); ok {
			return s
		}
		return jen.Any()
	}
}

func namedCode(obj *types.TypeName) *jen.Statement {
	if obj.Pkg() == nil {
		return jen.Id(obj.Name())
	}
	return jen.Qual(obj.Pkg().Path(), obj.Name())
}
