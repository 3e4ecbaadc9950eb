package tui

// UI Layout Constants

const (
	SidebarWidthRatio = 0.35 // share of the width given to the endpoint list
	SidebarMinWidth   = 24

	// Rows consumed outside the response viewport: borders (2), form summary (5), status bar (1)
	ResponseOffset = 8

	MinimalBorderMargin = 2

	// ResultBuffer sizes the channel submission results arrive on
	ResultBuffer = 16
)
