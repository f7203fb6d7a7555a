//go:build go1.22

package gen

import (
	"go/types"

	"github.com/dave/jennifer/jen"
)

// aliasCode handles *types.Alias, which only exists in go/types as of Go 1.22.
func aliasCode(t types.Type) (*jen.Statement, bool) {
	if a, ok := t.(*types.Alias); ok {
		return namedCode(a.Obj()), true
	}
	return nil, false
}
