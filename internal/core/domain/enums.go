package domain

import (
	"errors"
	"fmt"
)

type SearchState string
type Backend string
type OutputFormat string

const (
	// Search states
	StateIdle         SearchState = "IDLE"
	StatePartitioning SearchState = "PARTITIONING"
	StateRunning      SearchState = "RUNNING"
	StateFound        SearchState = "FOUND"
	StateExhausted    SearchState = "EXHAUSTED"
	StateFailed       SearchState = "FAILED"
	StateCancelled    SearchState = "CANCELLED"

	// PKCS#12 decode backends
	BackendSSLMate Backend = "SSLMATE"
	BackendXCrypto Backend = "XCRYPTO"

	// Output formats
	FormatText OutputFormat = "TEXT"
	FormatJSON OutputFormat = "JSON"
	FormatYAML OutputFormat = "YAML"
)

var (
	CharsetLower   = "abcdefghijklmnopqrstuvwxyz"
	CharsetUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CharsetDigits  = "0123456789"
	CharsetSpecial = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	CharsetAlnum   = CharsetLower + CharsetUpper + CharsetDigits
	CharsetAll     = CharsetAlnum + CharsetSpecial
)

var charsetPresets = map[string]string{
	"lower":   CharsetLower,
	"upper":   CharsetUpper,
	"digits":  CharsetDigits,
	"special": CharsetSpecial,
	"alnum":   CharsetAlnum,
	"all":     CharsetAll,
}

// ResolveCharset expands a preset name into its symbols. Anything that is not
// a preset name is returned as a literal symbol list.
func ResolveCharset(value string) string {
	if preset, ok := charsetPresets[value]; ok {
		return preset
	}
	return value
}

type CrackingError string

const (
	ErrEmptyCharset        CrackingError = "EMPTY_CHARSET"
	ErrUnencodableCharset  CrackingError = "UNENCODABLE_CHARSET"
	ErrInvalidLength       CrackingError = "INVALID_LENGTH"
	ErrSpaceOverflow       CrackingError = "SPACE_OVERFLOW"
	ErrEmptySpace          CrackingError = "EMPTY_SPACE"
	ErrIndexOutOfRange     CrackingError = "INDEX_OUT_OF_RANGE"
	ErrMalformedContainer  CrackingError = "MALFORMED_CONTAINER"
	ErrUnreadableContainer CrackingError = "UNREADABLE_CONTAINER"
	ErrUnsupportedBackend  CrackingError = "UNSUPPORTED_BACKEND"
	ErrNoDevice            CrackingError = "NO_ACCELERATOR_DEVICE"
	ErrSearchRunning       CrackingError = "SEARCH_ALREADY_RUNNING"
	ErrInvalidSettings     CrackingError = "INVALID_SETTINGS"
)

func (e CrackingError) Error() string {
	return string(e)

}

// SetupError marks a failure detected before any worker starts. It is always
// fatal for the run.
type SetupError struct {
	Kind   CrackingError
	Detail string
	Err    error
}

func NewSetupError(kind CrackingError, detail string, err error) *SetupError {
	return &SetupError{Kind: kind, Detail: detail, Err: err}
}

func (e *SetupError) Error() string {
	msg := fmt.Sprintf("setup: %s", e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SetupError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func IsSetupError(err error) bool {
	var setupErr *SetupError
	return errors.As(err, &setupErr)
}
