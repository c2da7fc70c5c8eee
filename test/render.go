package test

import (
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/internal/ui/render"
)

// FrameRenderer is what the HUD view offers for drawing a frame.
type FrameRenderer interface {
	Render(dl *render.DisplayContext, f *overlay.Frame)
}

// RenderFrame returns f as it would appear on a width×height terminal.
func RenderFrame(r FrameRenderer, f *overlay.Frame, width, height int) string {
	dl := render.NewDisplayContext()
	r.Render(dl, f)
	return dl.RenderToString(width, height)
}
