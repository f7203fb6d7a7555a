package gen

import (
	"go/ast"
	"go/types"

	"github.com/syssam/oneshot/marker"
)

// Validate checks that a group's owner is an eligible immutable state
// record. The owner must be a named struct type carrying the state
// directive, and every marked field must be exported with a nillable type,
// so the consumed sentinel (nil) is representable and generated code in a
// separate package can reset it.
//
// A violation is returned as an *OwnerError naming the owner and the
// offending field; the caller skips the group and continues the round.
func Validate(g *Group) error {
	owner := g.Owner
	if owner.Type == nil {
		return NewOwnerError(owner.Name, "", "owner type is not resolved")
	}
	if _, ok := owner.Type.Underlying().(*types.Struct); !ok {
		return NewOwnerError(owner.Name, "", "owner is not a struct record")
	}
	if !owner.HasDirective {
		return NewOwnerError(owner.Name, "", "owner is missing the //"+marker.StateDirective+" directive")
	}
	if !ast.IsExported(owner.Name) {
		return NewOwnerError(owner.Name, "", "owner must be exported")
	}
	for _, f := range g.Fields {
		if !ast.IsExported(f.Name) {
			return NewOwnerError(owner.Name, f.Name, "marked field must be exported")
		}
		if !nillable(f.Type) {
			return NewOwnerError(owner.Name, f.Name, "marked field type has no nil sentinel; use a pointer, slice, map or interface")
		}
	}
	return nil
}

// nillable reports whether nil is a valid value of t.
func nillable(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map,
		*types.Interface, *types.Chan, *types.Signature:
		return true
	}
	return false
}
