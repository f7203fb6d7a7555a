// Package valid holds scanner fixtures whose types fully resolve.
package valid

//oneshot:state
type ProfileState struct {
	Ready  bool
	Notice *string  `oneshot:""`
	Items  []string `oneshot:"policy=consume_then_action"`
}

// The marked field sits in a nested field list: ownership resolution must
// walk up past the inner struct to reach the enclosing type declaration.
type wizard struct {
	Step struct {
		Hint *string `oneshot:""`
	}
}

// An anonymous struct in an expression has no enclosing type declaration;
// its marked field must resolve to no owner.
var scratch = struct {
	Blip *string `oneshot:""`
}{}

func use() any { _ = wizard{}; return scratch }
