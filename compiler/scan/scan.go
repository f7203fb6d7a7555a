// Package scan discovers oneshot-marked fields in Go packages.
//
// It loads a compilation snapshot with go/packages, finds struct fields
// whose tag carries the marker key, resolves each field's owning record
// type by walking the lexical parent chain, and partitions the findings
// into fully type-resolved fields and deferred ones whose type information
// is not yet available (typically because they reference code that an
// earlier generation round has not produced yet).
package scan

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/oneshot/marker"
)

// Owner identifies the record type owning one or more marked fields.
// Identity is PkgPath plus Name, never the simple name alone.
type Owner struct {
	Name         string
	PkgPath      string
	Type         *types.Named
	HasDirective bool // doc comment carries the state directive
	File         string
	Pos          token.Position
}

// Field is a single marked field declaration. Tag holds the raw marker
// arguments exactly as written, before any configuration resolution.
// Owner is nil when no enclosing type declaration was found.
type Field struct {
	Name  string
	Type  types.Type
	Tag   string
	File  string
	Pos   token.Position
	Owner *Owner
}

// Result partitions one scan pass. Deferred fields must be re-offered to a
// later round, never dropped: their declarations are real, only their type
// information is incomplete in this snapshot.
type Result struct {
	Valid    []*Field
	Deferred []*Field
}

var loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Load scans the packages matched by patterns, rooted at dir, for marked
// fields. Load itself fails only when the snapshot cannot be produced at
// all; per-package type errors degrade affected fields to deferred instead.
func Load(ctx context.Context, dir string, patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("scan: load %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("scan: no packages matched %v", patterns)
	}
	res := &Result{}
	broken := 0
	for _, pkg := range pkgs {
		// A package with errors and no syntax never produced a snapshot;
		// type errors alone still leave syntax to scan.
		if len(pkg.Syntax) == 0 && len(pkg.Errors) > 0 {
			broken++
			continue
		}
		scanPackage(pkg, res)
	}
	if broken == len(pkgs) {
		return nil, fmt.Errorf("scan: load %v: %s", patterns, pkgs[0].Errors[0].Msg)
	}
	return res, nil
}

func scanPackage(pkg *packages.Package, res *Result) {
	owners := make(map[*ast.TypeSpec]*Owner)
	for _, file := range pkg.Syntax {
		parents := parentMap(file)
		ast.Inspect(file, func(n ast.Node) bool {
			st, ok := n.(*ast.StructType)
			if !ok || st.Fields == nil {
				return true
			}
			for _, f := range st.Fields.List {
				raw, ok := markerTag(f)
				if !ok {
					continue
				}
				for _, name := range f.Names {
					res.add(markedField(pkg, parents, owners, f, name, raw))
				}
			}
			return true
		})
	}
}

// markedField builds one Field from a declaration. The field lands in the
// deferred set when its own type, or its owner's type object, has not been
// resolved in this snapshot.
func markedField(pkg *packages.Package, parents map[ast.Node]ast.Node, owners map[*ast.TypeSpec]*Owner, f *ast.Field, name *ast.Ident, raw string) (*Field, bool) {
	pos := pkg.Fset.Position(name.Pos())
	mf := &Field{
		Name: name.Name,
		Tag:  raw,
		File: pos.Filename,
		Pos:  pos,
	}
	if ts := resolveOwner(parents, f); ts != nil {
		mf.Owner = ownerFor(pkg, parents, owners, ts)
	}
	mf.Type = pkg.TypesInfo.TypeOf(f.Type)
	resolved := mf.Type != nil && !hasInvalid(mf.Type)
	if mf.Owner != nil && mf.Owner.Type == nil {
		resolved = false
	}
	return mf, resolved
}

func (r *Result) add(f *Field, resolved bool) {
	if resolved {
		r.Valid = append(r.Valid, f)
		return
	}
	r.Deferred = append(r.Deferred, f)
}

// resolveOwner walks the lexical parent chain from a field declaration
// until it reaches a type declaration. The walk covers fields declared in
// nested field lists, whose immediate parent is not the type spec. A nil
// return means the chain exhausted without one (the field belongs to an
// anonymous struct in an expression); such fields are excluded from
// grouping with no diagnostic.
func resolveOwner(parents map[ast.Node]ast.Node, n ast.Node) *ast.TypeSpec {
	for n != nil {
		if ts, ok := n.(*ast.TypeSpec); ok {
			return ts
		}
		n = parents[n]
	}
	return nil
}

func ownerFor(pkg *packages.Package, parents map[ast.Node]ast.Node, owners map[*ast.TypeSpec]*Owner, ts *ast.TypeSpec) *Owner {
	if o, ok := owners[ts]; ok {
		return o
	}
	pos := pkg.Fset.Position(ts.Pos())
	o := &Owner{
		Name:         ts.Name.Name,
		PkgPath:      pkg.PkgPath,
		HasDirective: hasStateDirective(pkg, parents, ts),
		File:         pos.Filename,
		Pos:          pos,
	}
	if obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName); ok {
		if named, ok := obj.Type().(*types.Named); ok {
			o.Type = named
		}
	}
	owners[ts] = o
	return o
}

// hasStateDirective reports whether the type's doc comment carries the
// state directive. Directive comments are filtered out of Doc.Text(), so
// the raw comment list is inspected. A single-type declaration attaches
// its doc to the surrounding GenDecl, not the TypeSpec.
func hasStateDirective(pkg *packages.Package, parents map[ast.Node]ast.Node, ts *ast.TypeSpec) bool {
	docs := []*ast.CommentGroup{ts.Doc, ts.Comment}
	if gd, ok := parents[ts].(*ast.GenDecl); ok {
		docs = append(docs, gd.Doc)
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, c := range doc.List {
			if strings.TrimSpace(c.Text) == "//"+marker.StateDirective {
				return true
			}
		}
	}
	return false
}

// markerTag extracts the raw marker-tag value from a field declaration.
func markerTag(f *ast.Field) (string, bool) {
	if f.Tag == nil {
		return "", false
	}
	tag := strings.Trim(f.Tag.Value, "`")
	return reflect.StructTag(tag).Lookup(marker.TagKey)
}

// parentMap records the lexical parent of every node in the file.
// go/ast carries no parent links, so the ownership walk needs one pass.
func parentMap(file *ast.File) map[ast.Node]ast.Node {
	parents := make(map[ast.Node]ast.Node)
	var stack []ast.Node
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return false
		}
		if len(stack) > 0 {
			parents[n] = stack[len(stack)-1]
		}
		stack = append(stack, n)
		return true
	})
	return parents
}

// hasInvalid reports whether t contains an unresolved component.
func hasInvalid(t types.Type) bool {
	switch t := t.(type) {
	case *types.Basic:
		return t.Kind() == types.Invalid
	case *types.Pointer:
		return hasInvalid(t.Elem())
	case *types.Slice:
		return hasInvalid(t.Elem())
	case *types.Array:
		return hasInvalid(t.Elem())
	case *types.Map:
		return hasInvalid(t.Key()) || hasInvalid(t.Elem())
	case *types.Chan:
		return hasInvalid(t.Elem())
	}
	return false
}
