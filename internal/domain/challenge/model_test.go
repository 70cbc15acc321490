package challenge

import "testing"

func TestChallengeIsActive_InclusiveBounds(t *testing.T) {
	item := Challenge{ID: "c1", Start: 100, End: 200}

	tests := []struct {
		now  int64
		want bool
	}{
		{now: 99, want: false},
		{now: 100, want: true},
		{now: 150, want: true},
		{now: 200, want: true},
		{now: 201, want: false},
	}

	for _, tc := range tests {
		if got := item.IsActive(tc.now); got != tc.want {
			t.Fatalf("IsActive(%d) = %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestChallengeValidate(t *testing.T) {
	valid := Challenge{ID: "c1", Name: "Run 5k", Points: 10, Start: 1, End: 2, MaxCount: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Challenge)
	}{
		{name: "missing id", mutate: func(c *Challenge) { c.ID = "" }},
		{name: "missing name", mutate: func(c *Challenge) { c.Name = "" }},
		{name: "window reversed", mutate: func(c *Challenge) { c.Start, c.End = 5, 4 }},
		{name: "zero max count", mutate: func(c *Challenge) { c.MaxCount = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := valid
			tc.mutate(&item)
			if err := item.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestNewIndex_FirstRecordWins(t *testing.T) {
	idx := NewIndex([]Challenge{
		{ID: "c1", Points: 10},
		{ID: "c2", Points: 5},
		{ID: "c1", Points: 99},
	})

	if got := idx.PointsOf("c1"); got != 10 {
		t.Fatalf("unexpected points for c1: got=%d want=10", got)
	}
	if got := idx.PointsOf("missing"); got != 0 {
		t.Fatalf("unknown challenge must count zero, got=%d", got)
	}
}
