package access

// Role is the single role a user holds at any time.
type Role string

const (
	RoleAdmin               Role = "Admin"
	RoleSubAdmin            Role = "Sub-Admin"
	RoleHR                  Role = "HR"
	RoleTeamLead            Role = "Team Lead"
	RoleEmployee            Role = "Employee"
	RoleBusinessDevelopment Role = "Business Development"
)

var allRoles = []Role{
	RoleAdmin,
	RoleSubAdmin,
	RoleHR,
	RoleTeamLead,
	RoleEmployee,
	RoleBusinessDevelopment,
}

func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func KnownRole(role Role) bool {
	for _, candidate := range allRoles {
		if candidate == role {
			return true
		}
	}
	return false
}
