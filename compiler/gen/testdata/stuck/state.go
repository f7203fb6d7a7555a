// Package stuck holds a fixture whose marked field type never resolves:
// no round can supply the missing declaration.
package stuck

//oneshot:state
type ReplayState struct {
	Echo *LostEvent `oneshot:""`
}
