package host

import (
	"github.com/idursun/termhud/internal/overlay"
)

// ShowKeyboardMsg docks the input bar at the bottom of the screen. The
// overlay moves up out of its way.
type ShowKeyboardMsg struct {
	Placeholder string
}

// HideKeyboardMsg removes the input bar.
type HideKeyboardMsg struct{}

// SubmitMsg is sent to the content when enter is pressed in the input bar.
type SubmitMsg struct {
	Value string
}

// InputCancelledMsg is sent to the content when escape closes the input bar.
type InputCancelledMsg struct{}

// NotificationMsg forwards an overlay notification to the content.
type NotificationMsg overlay.Notification

type (
	// taskMsg carries work posted on the host scheduler.
	taskMsg func()
	// keyboardSettledMsg arrives once the input bar finished sliding.
	keyboardSettledMsg struct {
		shown bool
	}
	frameTickMsg struct{}
)
