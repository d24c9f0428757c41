package errors

var (
	// ErrTimeoutExceeded is returned when graceful timeout period exceeds.
	ErrTimeoutExceeded = New("Timeout exceeded")
	// ErrInvalidEnvironment is returned when the env is incorrect.
	ErrInvalidEnvironment = New("Invalid Environment")
	// ErrInvalidQueuePayload is returned when type assertion fails in queue producer.
	ErrInvalidQueuePayload = New("Invalid Queue Payload")
	// GenericErrorMessage is generic error message returned to UI
	GenericErrorMessage = New("Unexpected error. Please try again later.")
	// ErrConfigNotFound is returned when no config found
	ErrConfigNotFound = New("config not found")
	// ErrMissingTrackerConfig is returned when the tracker url or credentials are not configured.
	ErrMissingTrackerConfig = New("missing tracker url or credentials")
	// ErrMissingProjectKey is returned when a tracker project key is required but empty.
	ErrMissingProjectKey = New("project key is mandatory")
)

// Error represents a json-encoded API error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}
