package domain

// Fixed user-facing texts. Backend causes never reach the screen.
const (
	GuideFailureMessage      = "Failed to generate content. Please check your API key and try again."
	DefinitionFailureMessage = "Sorry, I could not find a definition for that term."
	WelcomeTitle             = "Welcome to your BNYS Study Guide"
	WelcomeMessage           = "Select a topic from the sidebar to generate a study guide. Select any word or phrase in the guide to look up its definition."
)
