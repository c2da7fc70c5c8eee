package overlay

import "github.com/charmbracelet/x/cellbuf"

// HandleTouch routes a touch-down at pos. It reports whether the overlay
// swallows the touch, which it does while attached with a mask other than
// MaskNone. Notifications are posted on the scheduler.
func (o *Overlay) HandleTouch(pos cellbuf.Position) bool {
	f := o.Frame()
	if !f.Attached || !f.Interactive {
		return false
	}
	o.scheduler.Post(func() {
		if o.parent == nil || !o.appearance.Interactive() {
			return
		}
		o.publish(DidReceiveTouchEvent)
		if pos.In(o.Frame().ScaledPanel()) {
			o.publish(DidTouchDownInside)
		}
	})
	return true
}
