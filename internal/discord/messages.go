package discord

// Friendly message constants for Discord responses
const (
	MsgQuestNotFound     = "❓ **Quest Not Found**\nThis thread isn't registered on the quest board."
	MsgAlreadyRegistered = "📌 **Already Registered**\nThis thread is already a quest."
	MsgAlreadyOnQuest    = "🎲 **Already Signed Up**\nYou're already on this quest."
	MsgNotOnQuest        = "🤷 **Not Signed Up**\nYou're not on this quest."
	MsgQuestClosed       = "🚪 **Quest Closed**\nThis quest is no longer recruiting."
	MsgDMCannotJoin      = "🎩 **You're the DM!**\nThe DM can't join their own roster."
	MsgNotAuthorized     = "🔒 **Not Authorized**\nOnly the quest DM or a moderator can do that."
	MsgGuildNotSetUp     = "⚙️ **Board Not Set Up**\nAsk a moderator to run /setup first."
	MsgTooManyApplies    = "⏳ **Slow Down**\nYou've applied to this quest too many times. Try again in an hour."
	MsgGenericError      = "❌ Something went wrong."

	MsgJoinedRoster    = "✅ You're on the roster!"
	MsgJoinedWaitlist  = "📋 Roster is full, you've been added to the waitlist at position %d."
	MsgLeftQuest       = "👋 You've left the quest."
	MsgPromoted        = "🎉 A spot opened up on **%s** and you've been moved from the waitlist to the roster!"
	MsgSystemUnknownDM = "Hi! I registered your quest **%s** but couldn't work out which game system it uses. " +
		"You can set it with `/quest update system:<name>` so players can find it."
)
