// Package session models who is calling: a Member or a Staff user, each with a
// fixed capability set. Sessions are trusted; nothing here checks credentials.
package session

import (
	"strings"
)

type Role string

const (
	RoleMember Role = "Member"
	RoleStaff  Role = "Staff"
)

type Capability string

const (
	CapBrowse  Capability = "browse"
	CapReserve Capability = "reserve"
	CapCancel  Capability = "cancel"
	CapViewOwn Capability = "view_own_reservations"
	CapViewAll Capability = "view_all_reservations"
	CapResolve Capability = "resolve_reservations"
	CapReports Capability = "reports"
)

var capabilities = map[Role]map[Capability]bool{
	RoleMember: {
		CapBrowse:  true,
		CapReserve: true,
		CapCancel:  true,
		CapViewOwn: true,
	},
	RoleStaff: {
		CapBrowse:  true,
		CapReserve: true,
		CapCancel:  true,
		CapViewOwn: true,
		CapViewAll: true,
		CapResolve: true,
		CapReports: true,
	},
}

// ParseRole accepts "member" / "staff" in any case.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return RoleMember, true
	case "staff":
		return RoleStaff, true
	}
	return "", false
}

// Session is the caller. The zero value is the anonymous session used when the
// client names no role; it is allowed everything, matching the trusted-client model.
type Session struct {
	Role     Role
	MemberID int64
}

func (s Session) Anonymous() bool { return s.Role == "" }

func (s Session) Can(c Capability) bool {
	if s.Anonymous() {
		return true
	}
	return capabilities[s.Role][c]
}

// ActsFor reports whether the session may act on memberID's reservations.
// Only a Member session bound to a concrete member is restricted.
func (s Session) ActsFor(memberID int64) bool {
	if s.Role != RoleMember || s.MemberID == 0 {
		return true
	}
	return s.MemberID == memberID
}
