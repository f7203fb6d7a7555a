// Package marker defines the declarative surface read by the oneshot
// generator: the struct-tag key carrying per-field arguments, the doc
// directive identifying eligible state records, and the ordering policy
// enumeration. The package has no behavior beyond policy normalization;
// it exists so user schemas and the compiler agree on one vocabulary.
//
// A state record and its marked fields look like this:
//
//	//oneshot:state
//	type SessionState struct {
//		Loading    bool
//		Message    *string `oneshot:""`
//		NavigateTo *string `oneshot:"name=ConsumeNavigation,policy=ConsumeThenAction"`
//	}
package marker

import "strings"

const (
	// TagKey is the struct-tag key whose presence marks a one-shot field.
	// Its value holds optional comma-separated arguments: "name=<operation
	// name>" overrides the consume operation name, "policy=<policy>" sets
	// the ordering policy.
	TagKey = "oneshot"

	// StateDirective is the doc-comment directive that marks a type as an
	// eligible immutable state record.
	StateDirective = "oneshot:state"
)

// Policy is the ordering contract between a field's effect callback and
// its consume (reset) operation.
type Policy int

const (
	// ActionThenConsume runs the effect callback first, then resets the
	// field. This is the default policy.
	ActionThenConsume Policy = iota

	// ConsumeThenAction resets the field first, then runs the effect
	// callback.
	ConsumeThenAction
)

// String returns the policy's canonical name.
func (p Policy) String() string {
	if p == ConsumeThenAction {
		return "ConsumeThenAction"
	}
	return "ActionThenConsume"
}

// ParsePolicy normalizes a raw policy argument to a Policy. Each policy is
// recognized in three shapes: qualified by this package's name
// ("marker.ConsumeThenAction"), the bare constant name
// ("ConsumeThenAction"), and the printable lower-case forms
// ("consumeThenAction", "consume_then_action", "consume-then-action").
// All shapes are matched by literal before any fallback; an unrecognized
// value reports ok=false and the default policy, never a silently
// different one.
func ParsePolicy(raw string) (p Policy, ok bool) {
	switch strings.TrimSpace(raw) {
	case "marker.ActionThenConsume", "ActionThenConsume",
		"actionThenConsume", "action_then_consume", "action-then-consume":
		return ActionThenConsume, true
	case "marker.ConsumeThenAction", "ConsumeThenAction",
		"consumeThenAction", "consume_then_action", "consume-then-action":
		return ConsumeThenAction, true
	}
	return ActionThenConsume, false
}
