// Package session holds end-to-end generation fixtures.
package session

//oneshot:state
type SessionState struct {
	Loading    bool
	Message    *string `oneshot:""`
	NavigateTo *string `oneshot:"name=ConsumeNavigation,policy=ConsumeThenAction"`
}

// Missing the state directive: its marked field must surface as a
// diagnostic without blocking SessionState's artifacts.
type DraftState struct {
	Banner *string `oneshot:""`
}
