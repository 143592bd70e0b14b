package guard

import "github.com/hostelhub/hostel/pkg/domain"

// Destination names a view of the portal by its path.
type Destination string

const (
	Login             Destination = "/login"
	StudentDashboard  Destination = "/student/dashboard"
	StudentRooms      Destination = "/student/rooms"
	StudentLeave      Destination = "/student/leave"
	StudentComplaints Destination = "/student/complaints"
	StudentProfile    Destination = "/student/profile"
	WardenDashboard   Destination = "/warden/dashboard"
	WardenRooms       Destination = "/warden/rooms"
	WardenLeaves      Destination = "/warden/leaves"
	WardenComplaints  Destination = "/warden/complaints"
	WardenNotices     Destination = "/warden/notices"
	WardenAllocations Destination = "/warden/allocations"
)

// Route binds a destination to the role it requires and its tab label.
type Route struct {
	Dest     Destination
	Title    string
	Required domain.Role
	Public   bool
}

var routes = []Route{
	{Dest: Login, Title: "Login", Public: true},
	{Dest: StudentDashboard, Title: "Dashboard", Required: domain.RoleStudent},
	{Dest: StudentRooms, Title: "Rooms", Required: domain.RoleStudent},
	{Dest: StudentLeave, Title: "Leave", Required: domain.RoleStudent},
	{Dest: StudentComplaints, Title: "Complaints", Required: domain.RoleStudent},
	{Dest: StudentProfile, Title: "Profile", Required: domain.RoleStudent},
	{Dest: WardenDashboard, Title: "Dashboard", Required: domain.RoleWarden},
	{Dest: WardenRooms, Title: "Rooms", Required: domain.RoleWarden},
	{Dest: WardenLeaves, Title: "Leaves", Required: domain.RoleWarden},
	{Dest: WardenComplaints, Title: "Complaints", Required: domain.RoleWarden},
	{Dest: WardenNotices, Title: "Notices", Required: domain.RoleWarden},
	{Dest: WardenAllocations, Title: "Allocations", Required: domain.RoleWarden},
}

// Lookup returns the route for d.
func Lookup(d Destination) (Route, bool) {
	for _, r := range routes {
		if r.Dest == d {
			return r, true
		}
	}
	return Route{}, false
}

// RoutesFor lists the tabs a role can reach, dashboard first.
func RoutesFor(role domain.Role) []Route {
	var out []Route
	for _, r := range routes {
		if !r.Public && r.Required == role {
			out = append(out, r)
		}
	}
	return out
}

// DashboardFor returns the landing view for role; login when the role is unknown.
func DashboardFor(role domain.Role) Destination {
	switch role {
	case domain.RoleStudent:
		return StudentDashboard
	case domain.RoleWarden:
		return WardenDashboard
	}
	return Login
}
