package domain

type Role string

const (
	RoleJobseeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
)

func (r Role) Valid() bool { return r == RoleJobseeker || r == RoleEmployer }

// Capability is an operation class gated by role.
type Capability int

const (
	CapPostJobs Capability = iota + 1
	CapViewApplicants
	CapViewAnalytics
	CapApply
	CapSaveJobs
	CapManageResume
)

var capabilities = map[Role]map[Capability]struct{}{
	RoleEmployer: {
		CapPostJobs:       {},
		CapViewApplicants: {},
		CapViewAnalytics:  {},
	},
	RoleJobseeker: {
		CapApply:        {},
		CapSaveJobs:     {},
		CapManageResume: {},
	},
}

func (r Role) Can(c Capability) bool {
	_, ok := capabilities[r][c]
	return ok
}

func (c Capability) String() string {
	switch c {
	case CapPostJobs:
		return "post jobs"
	case CapViewApplicants:
		return "view applicants"
	case CapViewAnalytics:
		return "view analytics"
	case CapApply:
		return "apply to jobs"
	case CapSaveJobs:
		return "save jobs"
	case CapManageResume:
		return "manage a resume"
	}
	return "unknown"
}

// Identity is the resolved caller of an operation. The zero value is anonymous.
type Identity struct {
	ID   string
	Role Role
}

func (id Identity) Anonymous() bool { return id.ID == "" }

// Require fails with Unauthorized for anonymous callers and Forbidden when
// the caller's role lacks c.
func (id Identity) Require(c Capability) error {
	if id.Anonymous() {
		return Unauthorized("authentication required")
	}
	if !id.Role.Can(c) {
		return Forbidden("only " + string(roleFor(c)) + "s can " + c.String())
	}
	return nil
}

func roleFor(c Capability) Role {
	for r, caps := range capabilities {
		if _, ok := caps[c]; ok {
			return r
		}
	}
	return ""
}
