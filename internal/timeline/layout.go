// Package timeline lays a day of bookings out as positioned blocks for the
// diary timeline view. The layout is a pure function of the bookings, the
// operating window and the clock, so it is computed fresh on every request.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"seatplan/pkg/model"
)

const (
	// SegmentMinutes is the grid resolution of the timeline.
	SegmentMinutes = 15
	// SegmentWidth is the pixel width of one grid segment.
	SegmentWidth = 60

	pxPerGuest       = 30
	minWidthSegments = 2
	maxWidthSegments = 8
)

// Block is one booking positioned on the timeline canvas.
type Block struct {
	BookingID        string `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	ContactName      string `json:"contact_name,omitempty"`
	SeatedTime       string `json:"seated_time"`
	Guests           int    `json:"guests"`
	Status           string `json:"status"`
	Offset           int    `json:"offset"`
	Width            int    `json:"width"`
	Lane             int    `json:"lane"`
}

// HourMark labels one hour boundary on the canvas.
type HourMark struct {
	Label  string `json:"label"`
	Offset int    `json:"offset"`
}

// Day is a fully laid-out service day.
type Day struct {
	Date         string     `json:"date"`
	Blocks       []Block    `json:"blocks"`
	Lanes        int        `json:"lanes"`
	HourMarks    []HourMark `json:"hour_marks"`
	ContentWidth int        `json:"content_width"`
	// NowOffset is set only when the displayed date is today in the venue
	// timezone and the venue-local time falls inside the operating window.
	NowOffset *int `json:"now_offset,omitempty"`
	// Viewport is the initial scroll window, present when the caller
	// supplies its width.
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Engine positions bookings inside a fixed operating window.
type Engine struct {
	startMinute int
	endMinute   int
}

func NewEngine(dayStart, dayEnd string) (*Engine, error) {
	start, err := parseClock(dayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid day start %q: %w", dayStart, err)
	}
	end, err := parseClock(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid day end %q: %w", dayEnd, err)
	}
	if start >= end {
		return nil, fmt.Errorf("day start %q must precede day end %q", dayStart, dayEnd)
	}
	return &Engine{startMinute: start, endMinute: end}, nil
}

func parseClock(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Offset maps a seated time to its canvas x position. Times are snapped down
// to the segment grid. Out-of-window times produce off-canvas positions
// rather than errors; a late booking renders past the edge, it is not lost.
func (e *Engine) Offset(seatedTime string) (int, error) {
	minute, err := parseClock(seatedTime)
	if err != nil {
		return 0, err
	}
	fromStart := minute - e.startMinute
	segment := fromStart / SegmentMinutes
	if fromStart < 0 && fromStart%SegmentMinutes != 0 {
		segment-- // floor, not truncate
	}
	return segment * SegmentWidth, nil
}

// Width sizes a block by party size, clamped so singles stay clickable and
// large parties do not swallow the canvas.
func (e *Engine) Width(guests int) int {
	px := guests * pxPerGuest
	if px < minWidthSegments*SegmentWidth {
		return minWidthSegments * SegmentWidth
	}
	if px > maxWidthSegments*SegmentWidth {
		return maxWidthSegments * SegmentWidth
	}
	return px
}

// ContentWidth is the canvas width spanned by the operating window.
func (e *Engine) ContentWidth() int {
	return (e.endMinute - e.startMinute) / SegmentMinutes * SegmentWidth
}

// HourMarks returns one labelled mark per hour boundary in the window,
// inclusive of both edges.
func (e *Engine) HourMarks() []HourMark {
	var marks []HourMark
	for minute := e.startMinute; minute <= e.endMinute; minute += 60 {
		marks = append(marks, HourMark{
			Label:  fmt.Sprintf("%02d:%02d", minute/60, minute%60),
			Offset: (minute - e.startMinute) / SegmentMinutes * SegmentWidth,
		})
	}
	return marks
}

// NowOffset returns the live marker position when now, in the venue timezone,
// falls on the displayed date inside the operating window. Unlike block
// offsets the marker is not snapped to the grid.
func (e *Engine) NowOffset(date string, now time.Time, venueTZ *time.Location) *int {
	if venueTZ == nil {
		venueTZ = time.UTC
	}
	local := now.In(venueTZ)
	if local.Format("2006-01-02") != date {
		return nil
	}
	// The window end is exclusive: at closing time the marker is gone.
	minute := local.Hour()*60 + local.Minute()
	if minute < e.startMinute || minute >= e.endMinute {
		return nil
	}
	px := (minute - e.startMinute) * SegmentWidth / SegmentMinutes
	return &px
}

// interval is a booking's occupancy in minutes from midnight.
type interval struct {
	index int
	start int
	end   int
}

// assignLanes packs bookings into horizontal lanes greedily: sorted by start
// time, each booking takes the lowest lane that is free at its start. Lanes
// grow as needed and overlapping bookings never share one.
func assignLanes(bookings []*model.Booking) []int {
	intervals := make([]interval, 0, len(bookings))
	for i, b := range bookings {
		start, err := parseClock(b.BookingSeatedTime)
		if err != nil {
			// Unparseable times sort first on lane 0; the offset pass
			// reports the real problem.
			start = 0
		}
		duration := b.Duration
		if duration <= 0 {
			duration = SegmentMinutes
		}
		intervals = append(intervals, interval{index: i, start: start, end: start + duration})
	}

	sort.SliceStable(intervals, func(a, b int) bool {
		if intervals[a].start != intervals[b].start {
			return intervals[a].start < intervals[b].start
		}
		return bookings[intervals[a].index].ID < bookings[intervals[b].index].ID
	})

	lanes := make([]int, len(bookings))
	var laneEnds []int
	for _, iv := range intervals {
		placed := false
		for lane, end := range laneEnds {
			if end <= iv.start {
				laneEnds[lane] = iv.end
				lanes[iv.index] = lane
				placed = true
				break
			}
		}
		if !placed {
			laneEnds = append(laneEnds, iv.end)
			lanes[iv.index] = len(laneEnds) - 1
		}
	}
	return lanes
}

// Layout positions a day of bookings. now drives the live marker; callers
// poll roughly once a minute to keep it moving.
func (e *Engine) Layout(date string, bookings []*model.Booking, now time.Time, venueTZ *time.Location) (*Day, error) {
	lanes := assignLanes(bookings)

	blocks := make([]Block, 0, len(bookings))
	maxLane := -1
	for i, b := range bookings {
		offset, err := e.Offset(b.BookingSeatedTime)
		if err != nil {
			return nil, fmt.Errorf("booking %s has invalid seated time %q: %w", b.ID, b.BookingSeatedTime, err)
		}
		block := Block{
			BookingID:        b.ID,
			BookingReference: b.BookingReference,
			SeatedTime:       b.BookingSeatedTime,
			Guests:           b.Guests,
			Status:           b.BookingStatus,
			Offset:           offset,
			Width:            e.Width(b.Guests),
			Lane:             lanes[i],
		}
		if b.Contact != nil {
			block.ContactName = b.Contact.FirstName + " " + b.Contact.LastName
		}
		if lanes[i] > maxLane {
			maxLane = lanes[i]
		}
		blocks = append(blocks, block)
	}

	return &Day{
		Date:         date,
		Blocks:       blocks,
		Lanes:        maxLane + 1,
		HourMarks:    e.HourMarks(),
		ContentWidth: e.ContentWidth(),
		NowOffset:    e.NowOffset(date, now, venueTZ),
	}, nil
}
