package adgen

import "errors"

const (
	MsgInsufficientCredits  = "Not enough credits!"
	MsgGenerationInProgress = "A generation is already running. Please wait for it to finish."
	MsgGenerationFailed     = "Something went wrong during generation. Check your API Key in the environment."
)

// UserMessage maps a generation error to the notification shown to the user.
// Provider failures all collapse into one generic message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientCredits):
		return MsgInsufficientCredits
	case errors.Is(err, ErrGenerationInProgress):
		return MsgGenerationInProgress
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	default:
		return MsgGenerationFailed
	}
}
