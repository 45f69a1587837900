package settings

// Defaults returns the built-in configuration every resolution starts from.
// Every section and every flag is populated, so whatever themes and user
// fragments leave untouched still has a defined value.
func Defaults() Settings {
	return Settings{
		Theme: &ThemeSettings{
			DesktopEnabled: Bool(true),
			MobileEnabled:  Bool(false),
			FontFamily:     "Arial, Helvetica, sans-serif",
			PrimaryColor:   "#42b0c5",
			SecondaryColor: "#491d8d",
		},
		Header: &HeaderSettings{
			Title: "Chatbot",
		},
		ChatInput: &ChatInputSettings{
			Placeholder: "Type your message...",
			Disabled:    Bool(false),
		},
		Footer: &FooterSettings{
			Text: "marionette",
		},
		Advance: &AdvanceSettings{
			UseCustomMessages: Bool(false),
			UseCustomPaths:    Bool(false),
			UseCustomSettings: Bool(false),
		},
	}
}
