package controllers

import "github.com/adamanr/staff_portal/internal/entity"

const (
	LoginPath      = "/"
	DashboardPath  = "/dashboard"
	InProgressPath = "/in_progress"
)

type GateState int

const (
	Anonymous GateState = iota
	AuthenticatedMatching
	AuthenticatedNonMatching
)

// Decision is the Access Gate verdict: either Granted, or a Redirect target.
type Decision struct {
	State    GateState
	Redirect string
}

func (d Decision) Granted() bool {
	return d.State == AuthenticatedMatching
}

func Authorize(session *entity.Employee, required entity.Role) Decision {
	switch {
	case session == nil:
		return Decision{State: Anonymous, Redirect: LoginPath}
	case session.Role != required:
		return Decision{State: AuthenticatedNonMatching, Redirect: InProgressPath}
	default:
		return Decision{State: AuthenticatedMatching}
	}
}

// HomePath is where a freshly authenticated employee lands.
func HomePath(role entity.Role) string {
	if role == entity.RoleAdmin {
		return DashboardPath
	}
	return InProgressPath
}
