package bot

// Discord message and command constants
const (
	MaxDiscordMessageLength = 2000
	CommandPrefix           = "!"
	AIChatCommand           = "aichat"
)

// User-facing replies
const (
	GenericErrorReply   = "Sorry, I encountered an error processing your message."
	AIChatUsageReply    = "Usage: !aichat on|off|status"
	AIChatEnabledReply  = "AI chat is now enabled in this channel."
	AIChatDisabledReply = "AI chat is now disabled in this channel."
	AIChatNotOnReply    = "AI chat was not enabled in this channel."
	AIChatStatusOnReply = "AI chat is enabled in this channel."
	AIChatStatusOff     = "AI chat is disabled in this channel."
	PermissionReply     = "You need the Manage Channels permission to do that."
)
