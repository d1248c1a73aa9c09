package enums

import "fmt"

// MemberStatus captures the lifecycle of a membership record.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusActive   MemberStatus = "active"
	MemberStatusRejected MemberStatus = "rejected"
	MemberStatusRevoked  MemberStatus = "revoked"
)

var validMemberStatuses = []MemberStatus{
	MemberStatusPending,
	MemberStatusActive,
	MemberStatusRejected,
	MemberStatusRevoked,
}

// String implements fmt.Stringer.
func (m MemberStatus) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known MemberStatus.
func (m MemberStatus) IsValid() bool {
	for _, candidate := range validMemberStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberStatus converts raw input into a MemberStatus. Values are
// case- and value-exact; anything outside the enum is rejected.
func ParseMemberStatus(value string) (MemberStatus, error) {
	for _, candidate := range validMemberStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member status %q", value)
}
