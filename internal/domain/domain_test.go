package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestRequire(t *testing.T) {
	seeker := Identity{ID: "s", Role: RoleJobseeker}
	employer := Identity{ID: "e", Role: RoleEmployer}

	if err := (Identity{}).Require(CapApply); KindOf(err) != KindUnauthorized {
		t.Fatalf("anonymous: %v", err)
	}
	if err := seeker.Require(CapApply); err != nil {
		t.Fatalf("seeker apply: %v", err)
	}
	err := seeker.Require(CapPostJobs)
	if KindOf(err) != KindForbidden || err.Error() != "only employers can post jobs" {
		t.Fatalf("seeker post: %v", err)
	}
	err = employer.Require(CapSaveJobs)
	if err == nil || err.Error() != "only jobseekers can save jobs" {
		t.Fatalf("employer save: %v", err)
	}
	if (Identity{ID: "x", Role: "admin"}).Require(CapViewAnalytics) == nil {
		t.Fatal("unknown role passed")
	}
}

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range []string{"Applied", "In Review", "Accepted", "Rejected"} {
		if _, err := ParseApplicationStatus(s); err != nil {
			t.Errorf("%q: %v", s, err)
		}
	}
	for _, s := range []string{"", "applied", "Hired", "InReview"} {
		if _, err := ParseApplicationStatus(s); KindOf(err) != KindValidation {
			t.Errorf("%q: %v", s, err)
		}
	}
}

func TestJobInputValidate(t *testing.T) {
	in := JobInput{Title: "  Go  ", Description: "d", Requirements: "r", Type: TypeContract}
	if err := in.Validate(); err != nil {
		t.Fatal(err)
	}
	if in.Title != "Go" {
		t.Errorf("title not trimmed: %q", in.Title)
	}
	for _, bad := range []JobInput{
		{Description: "d", Requirements: "r", Type: TypeRemote},
		{Title: "t", Requirements: "r", Type: TypeRemote},
		{Title: "t", Description: "d", Type: TypeRemote},
		{Title: "t", Description: "d", Requirements: "r", Type: "remote"},
	} {
		if err := bad.Validate(); KindOf(err) != KindValidation {
			t.Errorf("%+v: %v", bad, err)
		}
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", Conflict("already applied"))
	if KindOf(wrapped) != KindConflict {
		t.Fatalf("wrapped kind = %q", KindOf(wrapped))
	}
	if KindOf(errors.New("boom")) != KindStore || KindOf(nil) != "" {
		t.Fatal("untyped or nil kinds")
	}
	cause := errors.New("disk full")
	if err := Store("save failed", cause); !errors.Is(err, cause) || err.Error() != "save failed" {
		t.Fatalf("store error = %v", err)
	}
}
