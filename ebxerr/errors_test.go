package ebxerr

import (
	"fmt"
	"testing"
)

func TestAsMatchesWrappedSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid encoding", fmt.Errorf("decode: %w", ErrInvalidEncoding), KindInvalidEncoding},
		{"invalid checksum", fmt.Errorf("decode: %w", ErrInvalidChecksum), KindInvalidChecksum},
		{"too much data", fmt.Errorf("decode: %w", ErrTooMuchData), KindTooMuchData},
		{"not enough data", fmt.Errorf("decode: %w", ErrNotEnoughData), KindNotEnoughData},
		{"invalid key", fmt.Errorf("decode: %w", ErrInvalidKey), KindInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := As(tt.err)
			if !ok {
				t.Fatalf("As() ok = false, want true")
			}
			if got != tt.want {
				t.Errorf("As() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsUnrelatedError(t *testing.T) {
	_, ok := As(fmt.Errorf("unrelated failure"))
	if ok {
		t.Error("As() ok = true for an error with no ebxerr kind")
	}
}
