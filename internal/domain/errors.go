package domain

var (
	// ErrInvalidURL is an input validation failure; the engine never runs.
	ErrInvalidURL = errString("invalid URL")
	// ErrAnalysisFailed hides the cause of an internal evaluation failure.
	ErrAnalysisFailed = errString("analysis failed")
)

type errString string

func (e errString) Error() string { return string(e) }
