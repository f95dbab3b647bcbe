package contact

import "github.com/Zachkp/fluxfolio/internal/assistant"

// Status is the form's position in idle → submitting → success | error.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// User-facing messages.
const (
	InvalidMessage  = "Invalid form data."
	InFlightMessage = "A message is already being sent. Please wait."
	FailureMessage  = "Failed to prepare your message. Please try again."
	SuccessTitle    = "Message Sent!"
	SuccessMessage  = "Thanks for reaching out. My AI has your message and I'll be in touch soon."
)

// FormState is what the client renders after a submission.
type FormState struct {
	Status  Status                `json:"status"`
	Message string                `json:"message"`
	Draft   *assistant.EmailDraft `json:"data,omitempty"`
	Summary string                `json:"summary,omitempty"`
	Errors  FieldErrors           `json:"errors,omitempty"`
}

// Idle is the initial state.
func Idle() FormState {
	return FormState{Status: StatusIdle}
}

func failed(message string) FormState {
	return FormState{Status: StatusError, Message: message}
}
