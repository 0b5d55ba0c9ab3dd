package domain

// MembershipRole is the viewer's role within one organization.
// GitHub reports "admin" for organization owners on the membership
// endpoint, but older payloads also used "owner"; both are
// administrative.
type MembershipRole string

const (
	RoleAdmin  MembershipRole = "admin"
	RoleOwner  MembershipRole = "owner"
	RoleMember MembershipRole = "member"
)

// IsAdministrative reports whether the role grants organization administration
func (r MembershipRole) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleOwner
}

// OrgMembership is the viewer's membership in one organization.
// Used only to classify ownership rank during aggregation.
type OrgMembership struct {
	OrgLogin string         `json:"orgLogin"`
	Role     MembershipRole `json:"role"`
}
