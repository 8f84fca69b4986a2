package auth

const (
	RoleAdmin       = "admin"
	RoleProjectHead = "project_head"
	RoleStaff       = "staff"
)

const (
	PermDirectoryRead   = "directory.read"
	PermDirectoryWrite  = "directory.write"
	PermRequestsRead    = "requests.read"
	PermRequestsWrite   = "requests.write"
	PermRequestsApprove = "requests.approve"
	PermSalaryRead      = "salary.read"
	PermSalaryWrite     = "salary.write"
	PermAttendanceRead  = "attendance.read"
	PermAttendanceWrite = "attendance.write"
	PermGalleryRead     = "gallery.read"
	PermGalleryWrite    = "gallery.write"
	PermReportsRead     = "reports.read"
	PermAuditRead       = "audit.read"
)

var DefaultPermissions = []string{
	PermDirectoryRead,
	PermDirectoryWrite,
	PermRequestsRead,
	PermRequestsWrite,
	PermRequestsApprove,
	PermSalaryRead,
	PermSalaryWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermGalleryRead,
	PermGalleryWrite,
	PermReportsRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleStaff: {
		PermDirectoryRead,
		PermRequestsRead,
		PermRequestsWrite,
		PermGalleryRead,
	},
	RoleProjectHead: {
		PermDirectoryRead,
		PermRequestsRead,
		PermRequestsWrite,
		PermRequestsApprove,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermGalleryRead,
		PermReportsRead,
	},
	RoleAdmin: {
		PermDirectoryRead,
		PermDirectoryWrite,
		PermRequestsRead,
		PermRequestsWrite,
		PermRequestsApprove,
		PermSalaryRead,
		PermSalaryWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermGalleryRead,
		PermGalleryWrite,
		PermReportsRead,
		PermAuditRead,
	},
}

type UserContext struct {
	UserID      string
	Username    string
	Name        string
	Role        string
	Designation string
	EmployeeID  string
}
