package engine

const (
	replyHelp = "Here's what I can do:\n" +
		"/help — show this list\n" +
		"/mood — show your recent mood history\n" +
		"/exercise — get a short coping exercise\n" +
		"/affirmation — get a positive affirmation\n" +
		"/clear — forget our conversation so far\n" +
		"/upgrade — learn about premium\n" +
		"You can also just talk to me, or tell me your mood (e.g. \"my mood is 7\")."

	replyUnknownCommand = "I don't know that command. Try /help to see what I can do."

	replyAlreadyPremium = "You're already premium — thank you! You get extended conversation memory (50 turns)."

	replyUpgradePitch = "With premium you get extended conversation memory (50 turns instead of 10), " +
		"so I remember much more of what we've talked about. Ask the person running this bot to upgrade you."

	replyMoodEmpty = "I don't have any mood entries for you yet. " +
		"Tell me how you feel on a 1-10 scale (e.g. \"my mood is 7\") and I'll start tracking."

	replyMoodUpsell = "\n\nThere's more history than I can show on the free tier — /upgrade to keep a longer record."

	replyCleared = "Done — I've cleared our conversation history. Fresh start!"

	replyApology = "I'm sorry, I'm having trouble thinking right now. Please try again in a moment."
)

const moodEntriesShown = 10
