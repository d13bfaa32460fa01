package pet

import (
	"errors"
	"testing"
)

func TestValidate_RequiresID(t *testing.T) {
	if err := (Snapshot{ID: "  "}).Validate(); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if err := (Snapshot{ID: "p1"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDisplayName_FallsBack(t *testing.T) {
	cases := []struct {
		snap Snapshot
		want string
	}{
		{Snapshot{ID: "p1", Name: "Pip", Species: "Worm"}, "Pip"},
		{Snapshot{ID: "p1", Species: "Worm"}, "Worm"},
		{Snapshot{ID: "p1"}, "p1"},
	}
	for _, tc := range cases {
		if got := tc.snap.DisplayName(); got != tc.want {
			t.Fatalf("display name mismatch: got=%q want=%q", got, tc.want)
		}
	}
}
