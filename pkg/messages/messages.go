package messages

const (
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."
	ErrAdminOnly           = "Only server administrators can configure Kyogre."
	ErrSessionActive       = "You already have a configuration session open. Finish it, or reply **cancel** to it in our DMs, before starting another."
	ErrDirectMessages      = "I couldn't send you a direct message. Please allow direct messages from server members and try again."
	ErrUnknownSections     = "I don't know the following sections: %s\nThe sections are: %s"

	ConfigureStarted = "I've sent you a direct message to start configuring the server."

	SessionIntro     = "Let's configure **%s**. I'll ask about each feature in turn. Reply **cancel** at any time to stop without saving anything."
	SessionCancelled = "Configuration cancelled. No changes were made."
	SessionTimedOut  = "You didn't reply in time, so I've stopped the configuration. No changes were made."
	SessionFailed    = "Something went wrong while configuring the server. No changes were made."
	SessionSaved     = "Configuration saved.\nEnabled: %s\nDisabled: %s"
)
