package authz

// Superuser short-circuits every module check.
const Superuser = "*"

// Gatekeeper decides whether a caller may see a UI module. The pipeline
// engine behind the gated routes trusts the caller to have been gated
// already and performs no checks of its own.
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// CanAccess reports whether the permission set grants the module.
func (g *Gatekeeper) CanAccess(perms map[string]bool, module string) bool {
	if perms == nil {
		return false
	}
	if perms[Superuser] {
		return true
	}
	return perms[module]
}
