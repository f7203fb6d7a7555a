// Package collide holds two state records whose default consume names
// collide in the shared generated package.
package collide

//oneshot:state
type ProfileState struct {
	Message *string `oneshot:""`
}

//oneshot:state
type SessionState struct {
	Message *string `oneshot:""`
}
