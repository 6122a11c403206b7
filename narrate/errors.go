package narrate

import "errors"

// Common errors for the narration system.
var (
	// Lexicon errors
	ErrSourceUnavailable = errors.New("lexicon source is unavailable")
	ErrMalformedSource   = errors.New("lexicon source data is malformed")
	ErrNoSnapshot        = errors.New("no lexicon snapshot available")

	// Synthesis errors
	ErrSynthesisFailed    = errors.New("speech synthesis failed")
	ErrTextTooLong        = errors.New("text exceeds provider character limit")
	ErrEngineNotAvailable = errors.New("synthesis engine is not available")
	ErrEngineShutdown     = errors.New("synthesis engine has been shut down")

	// Assembly errors
	ErrUnsupportedContainer = errors.New("unsupported audio container")
	ErrContainerMismatch    = errors.New("audio container markers do not match")
	ErrSegmentOrder         = errors.New("audio segments are not in chunk order")

	// Controller errors
	ErrInvalidState    = errors.New("invalid state for operation")
	ErrStateTransition = errors.New("invalid state transition")
	ErrBatchCanceled   = errors.New("batch was canceled")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("required configuration missing")
)

// IsRecoverableError checks if an error leaves the system usable.
func IsRecoverableError(err error) bool {
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, ErrEngineNotAvailable),
		errors.Is(err, ErrEngineShutdown),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrMissingConfig):
		return false
	}

	// Most errors affect one script or one refresh, not the process.
	return true
}
