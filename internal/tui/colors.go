package tui

// Color constants for the sentinel TUI theme
const (
	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (labels, titles, clock)
	ColorSecondaryText = "#B1B8C7" // Secondary text
	ColorDisabledText  = "#6D7383" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#2563EB" // Accent elements, active borders
	ColorAccentBright = "#60A5FA" // Highlights, countdown emphasis

	// State Colors
	ColorError   = "#EF4444" // Errors, lock screen header
	ColorSuccess = "#22C55E" // Unlocked, confirmations
	ColorWarning = "#F59E0B" // Pre-lock countdown, meeting mode
)
