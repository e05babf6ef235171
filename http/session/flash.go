package session

const (
	// Default Flash Type
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	AccountExistsMsg = "An account already exists for that email."
	BadCredsMsg      = "Hmm... check those credentials."
	BadInputMsg      = "Hmm... check your form, something isn't correct."
	BadLinkMsg       = "That login link is not valid anymore. Please request a new one."
	DefaultErrMsg    = "Uh oh! We've run into an issue."
	GoogleFailedMsg  = "We couldn't sign you in with Google. Please try again."
	NoAccessMsg      = "Oops, sending you back somewhere safe."
	NoTripMsg        = "We couldn't find that trip."
	ProfileSavedMsg  = "Your profile has been saved."
	TripAddedMsg     = "Bon voyage! Your trip has been added."
	TripDeletedMsg   = "Your trip has been removed."
)

// ContactUsErr is a format string taking a support email address.
var ContactUsErr = DefaultErrMsg + " Please contact us at %s if the issue persists."

// A Flash is a one-time message shown on the next page rendered for the session.
type Flash struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}
