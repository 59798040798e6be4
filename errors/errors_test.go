package errors

import "testing"

func TestSentinelClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		notFound    bool
		consistency bool
	}{
		{"plain not found", ErrNotFound, true, false},
		{"wrapped not found", Wrap(ErrNotFound, "dataset lookup"), true, false},
		{"formatted not found", NewNotFoundError("dataset <%s> not found", "precip@climate"), true, false},
		{"temporal type mismatch", Wrap(ErrTemporalTypeMismatch, "register"), false, true},
		{"unit mismatch", ErrUnitMismatch, false, true},
		{"mapset mismatch", Wrapf(ErrMapsetMismatch, "map <%s>", "a@other"), false, true},
		{"invalid time", ErrInvalidTime, false, true},
		{"unrelated", New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.notFound {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.notFound)
			}
			if got := IsConsistencyError(tt.err); got != tt.consistency {
				t.Errorf("IsConsistencyError() = %v, want %v", got, tt.consistency)
			}
		})
	}
}

func TestIsNotFoundErrorNil(t *testing.T) {
	if IsNotFoundError(nil) {
		t.Error("IsNotFoundError(nil) should be false")
	}
	if IsConsistencyError(nil) {
		t.Error("IsConsistencyError(nil) should be false")
	}
}

func TestSyntaxErrorWrapping(t *testing.T) {
	err := NewSyntaxError("unpermitted temporal relation name %q", "sideways")
	if !Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
}
