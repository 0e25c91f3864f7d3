package role

// Role represents what an authenticated back-office user may read
type Role string

// Valid roles
const (
	ADMIN  Role = "ADMIN"
	EDITOR Role = "EDITOR"
)

// IsValid checks if the given role is a valid role constant
func IsValid(r Role) bool {
	switch r {
	case ADMIN, EDITOR:
		return true
	default:
		return false
	}
}

// CanReadDonations reports whether the role may see donor records.
func CanReadDonations(r Role) bool {
	return r == ADMIN
}

// CanReadContactMessages reports whether the role may read the contact inbox.
func CanReadContactMessages(r Role) bool {
	switch r {
	case ADMIN, EDITOR:
		return true
	default:
		return false
	}
}
