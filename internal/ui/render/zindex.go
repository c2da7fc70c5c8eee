package render

// Z-index constants for layered rendering. Higher values render on top.
const (
	// ZBase is the hosted application content.
	ZBase = 0

	// ZChrome is for the status rows and the input bar.
	ZChrome = 10

	// ZMask tints everything below the panel.
	ZMask = 190

	// ZOverlay is the HUD panel and its contents.
	ZOverlay = 200
)
