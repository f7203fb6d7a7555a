package gen

import (
	"go/token"
	"go/types"

	"github.com/syssam/oneshot/compiler/scan"
)

// Fixture helpers building scanned symbols without a real load pass.

func testPkg(path string) *types.Package {
	return types.NewPackage(path, "app")
}

func testOwner(pkgPath, name string) *scan.Owner {
	pkg := testPkg(pkgPath)
	tn := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(tn, types.NewStruct(nil, nil), nil)
	return &scan.Owner{
		Name:         name,
		PkgPath:      pkgPath,
		Type:         named,
		HasDirective: true,
		File:         "state.go",
		Pos:          token.Position{Filename: "state.go", Line: 1, Column: 1},
	}
}

func testField(owner *scan.Owner, name, tag string, typ types.Type, offset int) *scan.Field {
	return &scan.Field{
		Name:  name,
		Type:  typ,
		Tag:   tag,
		File:  "state.go",
		Pos:   token.Position{Filename: "state.go", Offset: offset, Line: 1 + offset, Column: 1},
		Owner: owner,
	}
}

func strPtr() types.Type {
	return types.NewPointer(types.Typ[types.String])
}

func testGroup(owner *scan.Owner, fields ...*scan.Field) *Group {
	return &Group{Owner: owner, Fields: fields}
}

func testConfig() *Config {
	return &Config{
		Package: "example.com/demo/oneshotgen",
		Header:  DefaultHeader,
	}
}
