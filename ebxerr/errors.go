// Package ebxerr defines the error-kind taxonomy shared by the identity and
// encoding layers of this module. Callers match kinds with errors.Is rather
// than comparing strings.
package ebxerr

import "errors"

// Sentinel kinds. Wrap these with fmt.Errorf("...: %w", ErrXxx) to attach
// context; the sentinel remains reachable through errors.Is.
var (
	// ErrInvalidEncoding signals malformed textual input: bad prefix,
	// non-hex checksum, bad base58, or a decoded length that doesn't match
	// the fixed-width contract the caller expected.
	ErrInvalidEncoding = errors.New("ebxerr: invalid encoding")

	// ErrInvalidChecksum signals well-shaped textual input whose checksum
	// does not match its payload.
	ErrInvalidChecksum = errors.New("ebxerr: invalid checksum")

	// ErrTooMuchData signals a byte input longer than a fixed-width contract
	// allows.
	ErrTooMuchData = errors.New("ebxerr: too much data")

	// ErrNotEnoughData signals a byte input shorter than a fixed-width
	// contract requires.
	ErrNotEnoughData = errors.New("ebxerr: not enough data")

	// ErrInvalidKey signals a scalar that fails secp256k1 validation, or a
	// curve-oracle operation the engine refused to perform.
	ErrInvalidKey = errors.New("ebxerr: invalid key")
)

// Kind names one of the five error kinds without requiring callers to hold
// a reference to the sentinel itself.
type Kind string

const (
	KindInvalidEncoding Kind = "invalid_encoding"
	KindInvalidChecksum Kind = "invalid_checksum"
	KindTooMuchData     Kind = "too_much_data"
	KindNotEnoughData   Kind = "not_enough_data"
	KindInvalidKey      Kind = "invalid_key"
)

var sentinelKinds = map[error]Kind{
	ErrInvalidEncoding: KindInvalidEncoding,
	ErrInvalidChecksum: KindInvalidChecksum,
	ErrTooMuchData:     KindTooMuchData,
	ErrNotEnoughData:   KindNotEnoughData,
	ErrInvalidKey:      KindInvalidKey,
}

// As reports which Kind err matches via errors.Is, so callers can branch on
// a kind without string-matching error text or importing every sentinel.
func As(err error) (Kind, bool) {
	for sentinel, kind := range sentinelKinds {
		if errors.Is(err, sentinel) {
			return kind, true
		}
	}
	return "", false
}
