package enums

import "testing"

func TestMemberStatusIsValid(t *testing.T) {
	for _, status := range []MemberStatus{MemberStatusPending, MemberStatusActive, MemberStatusRejected, MemberStatusRevoked} {
		if !status.IsValid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if MemberStatus("banned").IsValid() {
		t.Fatalf("unknown status should not be valid")
	}
	if MemberStatus("Active").IsValid() {
		t.Fatalf("status values are case-exact")
	}
}

func TestParseMemberStatus(t *testing.T) {
	status, err := ParseMemberStatus("revoked")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != MemberStatusRevoked {
		t.Fatalf("unexpected status %q", status)
	}

	if _, err := ParseMemberStatus("PENDING"); err == nil {
		t.Fatalf("expected case-exact parse to fail")
	}
	if _, err := ParseMemberStatus(""); err == nil {
		t.Fatalf("expected empty parse to fail")
	}
}
