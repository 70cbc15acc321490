package team

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrMemberNotPending       = errors.New("username is not pending for team")
	ErrPendingSnapshotInvalid = errors.New("pending index does not match username")
)

// PlanAdmission picks the first pending occurrence of username.
func PlanAdmission(t Team, username string) (AdmitMemberInput, error) {
	idx := slices.Index(t.Pending, username)
	if idx < 0 {
		return AdmitMemberInput{}, fmt.Errorf("%w: team=%s username=%s", ErrMemberNotPending, t.ID, username)
	}
	return AdmitMemberInput{
		TeamID:          t.ID,
		Username:        username,
		PendingIndex:    idx,
		ExpectedVersion: t.Version,
	}, nil
}

// ApplyAdmission returns the record after input is applied.
func ApplyAdmission(t Team, input AdmitMemberInput) (Team, error) {
	if input.PendingIndex < 0 || input.PendingIndex >= len(t.Pending) || t.Pending[input.PendingIndex] != input.Username {
		return Team{}, ErrPendingSnapshotInvalid
	}

	next := t.Clone()
	next.Pending = slices.Delete(next.Pending, input.PendingIndex, input.PendingIndex+1)
	next.Members = append(next.Members, input.Username)
	next.Version++
	return next, nil
}
