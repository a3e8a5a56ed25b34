package ai

const (
	// DefaultPersona is the fixed system instruction sent as the first
	// turn when no persona file overrides it.
	DefaultPersona = "You are Kokoro, a warm, supportive companion focused on emotional wellbeing. " +
		"Keep replies short, kind, and conversational. You are not a therapist and you never " +
		"diagnose; if someone appears to be in crisis, gently suggest reaching out to a " +
		"professional or a local helpline."

	// moodTag wraps a reported score so the model sees the structured
	// fact even though stores keep the human original.
	moodTagFormat = "[mood_report score=%d/10] %s"

	// Synthesized prompts for the exercise/affirmation flows. The tag
	// prefix mirrors the mood annotation style.
	ExercisePrompt = "[exercise_request] Offer one short, concrete coping exercise " +
		"(breathing, grounding, or journaling) the user can do right now, in under 120 words."
	AffirmationPrompt = "[affirmation_request] Offer one brief, personal affirmation or " +
		"positive thought for the user, in one or two sentences."

	// affirmationSeedFormat carries the cached feed item into the prompt
	// so the model builds on it instead of inventing one.
	affirmationSeedFormat = AffirmationPrompt + " Build on today's affirmation from the feed: %q"
)
