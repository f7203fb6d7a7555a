//go:build !go1.22

package gen

import (
	"go/types"

	"github.com/dave/jennifer/jen"
)

// aliasCode is a no-op before Go 1.22: go/types resolves aliases away,
// so *types.Alias values never occur.
func aliasCode(types.Type) (*jen.Statement, bool) {
	return nil, false
}
