package service

// Decision is the outcome of the route guard.
type Decision int

const (
	// DecisionWait means the session is unresolved; show a loading
	// indicator and decide later.
	DecisionWait Decision = iota
	// DecisionAdmit lets the protected command run.
	DecisionAdmit
	// DecisionRedirectLogin sends the operator to the login entry point.
	DecisionRedirectLogin
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionAdmit:
		return "admit"
	case DecisionRedirectLogin:
		return "redirect-login"
	default:
		return "invalid"
	}
}

// Guard decides whether a protected command may run. It is a pure function
// of the snapshot and must be evaluated again after every session change.
func Guard(s SessionSnapshot) Decision {
	switch s.State() {
	case SessionUnknown:
		return DecisionWait
	case SessionAuthenticated:
		return DecisionAdmit
	default:
		return DecisionRedirectLogin
	}
}
