package team

import (
	"errors"
	"slices"
	"testing"
)

func TestPlanAdmission(t *testing.T) {
	item := Team{ID: "t1", Pending: []string{"bob", "alice", "bob"}, Version: 2}

	input, err := PlanAdmission(item, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.PendingIndex != 0 || input.ExpectedVersion != 2 {
		t.Fatalf("unexpected plan: %+v", input)
	}

	if _, err := PlanAdmission(item, "carol"); !errors.Is(err, ErrMemberNotPending) {
		t.Fatalf("expected ErrMemberNotPending, got %v", err)
	}
}

func TestApplyAdmission(t *testing.T) {
	item := Team{ID: "t1", Pending: []string{"bob", "alice", "bob"}, Members: []string{"dave"}, Version: 2}

	next, err := ApplyAdmission(item, AdmitMemberInput{TeamID: "t1", Username: "bob", PendingIndex: 0, ExpectedVersion: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(next.Pending, []string{"alice", "bob"}) {
		t.Fatalf("unexpected pending: %v", next.Pending)
	}
	if !slices.Equal(next.Members, []string{"dave", "bob"}) {
		t.Fatalf("unexpected members: %v", next.Members)
	}
	if next.Version != 3 {
		t.Fatalf("expected version 3, got %d", next.Version)
	}
	if !slices.Equal(item.Pending, []string{"bob", "alice", "bob"}) {
		t.Fatalf("input record must not be mutated: %v", item.Pending)
	}

	if _, err := ApplyAdmission(item, AdmitMemberInput{Username: "bob", PendingIndex: 1}); !errors.Is(err, ErrPendingSnapshotInvalid) {
		t.Fatalf("expected ErrPendingSnapshotInvalid, got %v", err)
	}
}
