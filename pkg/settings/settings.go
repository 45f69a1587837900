// Package settings defines the widget configuration object and the resolver
// that merges partial user settings and themes into a fully-defaulted one.
//
// Scalar flags are pointers so that an explicit false in a fragment survives
// merging; a nil pointer means "not specified" and falls through to the value
// beneath it. Accessors on Settings tolerate missing sections, so an
// unresolved (zero) Settings reads as fail-closed rather than panicking.
package settings

// Settings is the widget configuration. Every section is optional in user
// input and theme fragments; Resolve returns one with all sections populated.
type Settings struct {
	Theme     *ThemeSettings     `yaml:"theme,omitempty" json:"theme,omitempty"`
	Header    *HeaderSettings    `yaml:"header,omitempty" json:"header,omitempty"`
	ChatInput *ChatInputSettings `yaml:"chat_input,omitempty" json:"chat_input,omitempty"`
	Footer    *FooterSettings    `yaml:"footer,omitempty" json:"footer,omitempty"`
	Advance   *AdvanceSettings   `yaml:"advance,omitempty" json:"advance,omitempty"`
}

// ThemeSettings controls visibility and the look of the outer container.
type ThemeSettings struct {
	DesktopEnabled *bool  `yaml:"desktop_enabled,omitempty" json:"desktop_enabled,omitempty"`
	MobileEnabled  *bool  `yaml:"mobile_enabled,omitempty" json:"mobile_enabled,omitempty"`
	FontFamily     string `yaml:"font_family,omitempty" json:"font_family,omitempty"`
	PrimaryColor   string `yaml:"primary_color,omitempty" json:"primary_color,omitempty"`
	SecondaryColor string `yaml:"secondary_color,omitempty" json:"secondary_color,omitempty"`
}

// HeaderSettings configures the widget header bar.
type HeaderSettings struct {
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Avatar string `yaml:"avatar,omitempty" json:"avatar,omitempty"`
}

// ChatInputSettings configures the user input field.
type ChatInputSettings struct {
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Disabled    *bool  `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// FooterSettings configures the widget footer line.
type FooterSettings struct {
	Text string `yaml:"text,omitempty" json:"text,omitempty"`
}

// AdvanceSettings opts the embedding application out of widget-owned state.
// A set flag means the application mounts and manages that state itself and
// the widget never injects its own store for it.
type AdvanceSettings struct {
	UseCustomMessages *bool `yaml:"use_custom_messages,omitempty" json:"use_custom_messages,omitempty"`
	UseCustomPaths    *bool `yaml:"use_custom_paths,omitempty" json:"use_custom_paths,omitempty"`
	UseCustomSettings *bool `yaml:"use_custom_settings,omitempty" json:"use_custom_settings,omitempty"`
}

// DesktopEnabled reports whether the widget shows on desktop clients.
func (s Settings) DesktopEnabled() bool {
	return s.Theme != nil && s.Theme.DesktopEnabled != nil && *s.Theme.DesktopEnabled
}

// MobileEnabled reports whether the widget shows on mobile clients.
func (s Settings) MobileEnabled() bool {
	return s.Theme != nil && s.Theme.MobileEnabled != nil && *s.Theme.MobileEnabled
}

// FontFamily returns the configured font stack, or "" when unset.
func (s Settings) FontFamily() string {
	if s.Theme == nil {
		return ""
	}
	return s.Theme.FontFamily
}

// UseCustomMessages reports whether the application owns message history.
func (s Settings) UseCustomMessages() bool {
	return s.Advance != nil && s.Advance.UseCustomMessages != nil && *s.Advance.UseCustomMessages
}

// UseCustomPaths reports whether the application owns path history.
func (s Settings) UseCustomPaths() bool {
	return s.Advance != nil && s.Advance.UseCustomPaths != nil && *s.Advance.UseCustomPaths
}

// UseCustomSettings reports whether the application owns the settings store.
func (s Settings) UseCustomSettings() bool {
	return s.Advance != nil && s.Advance.UseCustomSettings != nil && *s.Advance.UseCustomSettings
}

// Bool is a convenience for building fragments with pointer flags.
func Bool(v bool) *bool { return &v }
