// Package broken holds a fixture whose marked field references a type
// that does not exist yet, the shape of code waiting on a generation
// round.
package broken

//oneshot:state
type PendingState struct {
	Event *MissingEvent `oneshot:""`
}
