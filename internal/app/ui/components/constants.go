package components

import "time"

// UI timing constants
const (
	// UITickInterval drives the live indicator animation
	UITickInterval = 100 * time.Millisecond

	UITicksPerSecond = int(time.Second / UITickInterval)
)

// Header layout constants
const (
	HeaderSeparatorMinWidth = 4
	HeaderFixedChars        = 10
)

// Footer layout constants
const (
	FooterSeparatorMinWidth = 4
	FooterFixedChars        = 5
)

// Log view constants
const (
	LogSourceMaxWidth    = 12
	LogMessageMinWidth   = 20
	DefaultViewportWidth = 80
	MinBannerWidth       = 40
	PanelInnerPadding    = 4
)
