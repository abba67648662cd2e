package timeline

// arrowStepSegments is one hour of canvas per arrow press.
const arrowStepSegments = 60 / SegmentMinutes

// Viewport models the horizontally scrollable window over the timeline
// canvas. Scroll math lives server-side so every client agrees on it.
type Viewport struct {
	Offset       int `json:"offset"`
	Width        int `json:"width"`
	ContentWidth int `json:"content_width"`
}

func NewViewport(width, contentWidth int) Viewport {
	if width < 0 {
		width = 0
	}
	if contentWidth < 0 {
		contentWidth = 0
	}
	return Viewport{Width: width, ContentWidth: contentWidth}
}

func (v Viewport) maxOffset() int {
	max := v.ContentWidth - v.Width
	if max < 0 {
		return 0
	}
	return max
}

// Clamp pins the offset inside the content bounds.
func (v Viewport) Clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if max := v.maxOffset(); offset > max {
		return max
	}
	return offset
}

// StepForward advances one hour.
func (v Viewport) StepForward() Viewport {
	v.Offset = v.Clamp(v.Offset + arrowStepSegments*SegmentWidth)
	return v
}

// StepBack rewinds one hour.
func (v Viewport) StepBack() Viewport {
	v.Offset = v.Clamp(v.Offset - arrowStepSegments*SegmentWidth)
	return v
}

// Drag applies a raw touch delta. No momentum, just the clamp.
func (v Viewport) Drag(delta int) Viewport {
	v.Offset = v.Clamp(v.Offset + delta)
	return v
}

// CenterOn scrolls so the given canvas position sits mid-viewport. Jump-to-now
// passes the live marker offset here.
func (v Viewport) CenterOn(position int) Viewport {
	v.Offset = v.Clamp(position - v.Width/2)
	return v
}

// InitialViewport is the scroll position a freshly opened day lands on:
// centered on the live marker when it is visible, otherwise the start of
// service.
func InitialViewport(width, contentWidth int, nowOffset *int) Viewport {
	v := NewViewport(width, contentWidth)
	if nowOffset != nil {
		return v.CenterOn(*nowOffset)
	}
	return v
}
