package access

import "sort"

// Permission is an atomic capability key.
type Permission string

const (
	PermDashboardView      Permission = "dashboard:view"
	PermAttendanceViewOwn  Permission = "attendance:view:own"
	PermAttendanceViewTeam Permission = "attendance:view:team"
	PermAttendanceViewAll  Permission = "attendance:view:all"
	PermAttendanceEdit     Permission = "attendance:edit"
	PermLeaveViewOwn       Permission = "leave:view:own"
	PermLeaveViewTeam      Permission = "leave:view:team"
	PermLeaveViewAll       Permission = "leave:view:all"
	PermLeaveRequest       Permission = "leave:request"
	PermLeaveApprove       Permission = "leave:approve"
	PermPayrollViewOwn     Permission = "payroll:view:own"
	PermPayrollViewAll     Permission = "payroll:view:all"
	PermPayrollEdit        Permission = "payroll:edit"
	PermTasksViewOwn       Permission = "tasks:view:own"
	PermTasksViewTeam      Permission = "tasks:view:team"
	PermTasksViewAll       Permission = "tasks:view:all"
	PermTasksAssign        Permission = "tasks:assign"
	PermTasksEdit          Permission = "tasks:edit"
	PermTimesheetsViewOwn  Permission = "timesheets:view:own"
	PermTimesheetsViewTeam Permission = "timesheets:view:team"
	PermTimesheetsViewAll  Permission = "timesheets:view:all"
	PermTimesheetsSubmit   Permission = "timesheets:submit"
	PermTimesheetsApprove  Permission = "timesheets:approve"
	PermLeadsView          Permission = "leads:view"
	PermLeadsEdit          Permission = "leads:edit"
	PermClientsView        Permission = "clients:view"
	PermClientsEdit        Permission = "clients:edit"
	PermTicketsView        Permission = "tickets:view"
	PermTicketsEdit        Permission = "tickets:edit"
	PermUsersView          Permission = "users:view"
	PermUsersEdit          Permission = "users:edit"
	PermRolesAssign        Permission = "users:roles:edit"
	PermOverridesEdit      Permission = "users:overrides:edit"
	PermTeamsView          Permission = "teams:view"
	PermTeamsEdit          Permission = "teams:edit"
	PermReportsView        Permission = "reports:view"
	PermAuditLogView       Permission = "audit-log:view"
	PermSettingsEdit       Permission = "settings:edit"
)

// Catalog is the process-wide permission catalog: key to human description.
// Static configuration, loaded once, never mutated at runtime.
var Catalog = map[Permission]string{
	PermDashboardView:      "View the dashboard",
	PermAttendanceViewOwn:  "View own attendance records",
	PermAttendanceViewTeam: "View attendance records of led teams",
	PermAttendanceViewAll:  "View all attendance records",
	PermAttendanceEdit:     "Edit attendance records",
	PermLeaveViewOwn:       "View own leave requests",
	PermLeaveViewTeam:      "View leave requests of led teams",
	PermLeaveViewAll:       "View all leave requests",
	PermLeaveRequest:       "Submit leave requests",
	PermLeaveApprove:       "Approve or reject leave requests",
	PermPayrollViewOwn:     "View own payroll rows",
	PermPayrollViewAll:     "View all payroll rows",
	PermPayrollEdit:        "Edit payroll rows",
	PermTasksViewOwn:       "View own tasks",
	PermTasksViewTeam:      "View tasks of led teams",
	PermTasksViewAll:       "View all tasks",
	PermTasksAssign:        "Assign tasks",
	PermTasksEdit:          "Edit tasks",
	PermTimesheetsViewOwn:  "View own timesheets",
	PermTimesheetsViewTeam: "View timesheets of led teams",
	PermTimesheetsViewAll:  "View all timesheets",
	PermTimesheetsSubmit:   "Submit timesheets",
	PermTimesheetsApprove:  "Approve timesheets",
	PermLeadsView:          "View hiring and sales leads",
	PermLeadsEdit:          "Edit hiring and sales leads",
	PermClientsView:        "View client accounts",
	PermClientsEdit:        "Edit client accounts",
	PermTicketsView:        "View client tickets",
	PermTicketsEdit:        "Edit client tickets",
	PermUsersView:          "View user profiles",
	PermUsersEdit:          "Edit user profiles",
	PermRolesAssign:        "Assign user roles",
	PermOverridesEdit:      "Manage per-user permission overrides",
	PermTeamsView:          "View teams",
	PermTeamsEdit:          "Edit teams and memberships",
	PermReportsView:        "View reports",
	PermAuditLogView:       "View the audit log",
	PermSettingsEdit:       "Edit system settings",
}

func CatalogKeys() []Permission {
	keys := make([]Permission, 0, len(Catalog))
	for key := range Catalog {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RolePermissions is the default grant table. Admin holds the full catalog so
// the superset property holds by construction.
var RolePermissions = map[Role][]Permission{
	RoleAdmin:    CatalogKeys(),
	RoleSubAdmin: subAdminPermissions(),
	RoleHR: {
		PermDashboardView,
		PermAttendanceViewOwn,
		PermAttendanceViewAll,
		PermAttendanceEdit,
		PermLeaveViewOwn,
		PermLeaveViewAll,
		PermLeaveRequest,
		PermLeaveApprove,
		PermPayrollViewOwn,
		PermPayrollViewAll,
		PermPayrollEdit,
		PermTasksViewOwn,
		PermTasksViewAll,
		PermTasksAssign,
		PermTasksEdit,
		PermTimesheetsViewOwn,
		PermTimesheetsViewAll,
		PermTimesheetsSubmit,
		PermTimesheetsApprove,
		PermUsersView,
		PermUsersEdit,
		PermTeamsView,
		PermTeamsEdit,
		PermReportsView,
	},
	RoleTeamLead: {
		PermDashboardView,
		PermAttendanceViewOwn,
		PermAttendanceViewTeam,
		PermLeaveViewOwn,
		PermLeaveViewTeam,
		PermLeaveRequest,
		PermLeaveApprove,
		PermPayrollViewOwn,
		PermTasksViewOwn,
		PermTasksViewTeam,
		PermTasksAssign,
		PermTasksEdit,
		PermTimesheetsViewOwn,
		PermTimesheetsViewTeam,
		PermTimesheetsSubmit,
		PermTimesheetsApprove,
		PermTeamsView,
		PermReportsView,
	},
	RoleEmployee: {
		PermDashboardView,
		PermAttendanceViewOwn,
		PermLeaveViewOwn,
		PermLeaveRequest,
		PermPayrollViewOwn,
		PermTasksViewOwn,
		PermTimesheetsViewOwn,
		PermTimesheetsSubmit,
	},
	RoleBusinessDevelopment: {
		PermDashboardView,
		PermAttendanceViewOwn,
		PermLeaveViewOwn,
		PermLeaveRequest,
		PermPayrollViewOwn,
		PermTasksViewOwn,
		PermTimesheetsViewOwn,
		PermTimesheetsSubmit,
		PermLeadsView,
		PermLeadsEdit,
		PermClientsView,
		PermClientsEdit,
		PermTicketsView,
		PermTicketsEdit,
	},
}

// Sub-Admin carries near-Admin breadth minus system settings and override
// management, which stay Admin-only.
func subAdminPermissions() []Permission {
	excluded := map[Permission]struct{}{
		PermSettingsEdit:  {},
		PermOverridesEdit: {},
	}
	out := make([]Permission, 0, len(Catalog))
	for _, key := range CatalogKeys() {
		if _, ok := excluded[key]; ok {
			continue
		}
		out = append(out, key)
	}
	return out
}
