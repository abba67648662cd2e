package timeline

import (
	"testing"
	"time"

	"seatplan/pkg/model"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine("09:00", "19:00")
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func TestOffset_GridPositions(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		seatedTime string
		want       int
	}{
		{"09:00", 0},
		{"09:15", 60},
		{"09:14", 0},     // snapped down to the segment
		{"10:00", 240},   // four segments per hour
		{"12:30", 840},   // 3.5h = 14 segments
		{"18:45", 39 * 60},
		{"19:00", 40 * 60},
		{"08:00", -240},  // before opening renders off-canvas, not an error
		{"08:50", -60},   // floors toward negative
		{"21:00", 48 * 60},
	}

	for _, tt := range tests {
		got, err := engine.Offset(tt.seatedTime)
		if err != nil {
			t.Errorf("Offset(%q) error: %v", tt.seatedTime, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Offset(%q) = %d, want %d", tt.seatedTime, got, tt.want)
		}
	}
}

func TestOffset_MonotonicAcrossTheDay(t *testing.T) {
	engine := testEngine(t)

	prev := -1 << 30
	for minute := 0; minute < 24*60; minute += 5 {
		seatedTime := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC).
			Add(time.Duration(minute) * time.Minute).Format("15:04")
		got, err := engine.Offset(seatedTime)
		if err != nil {
			t.Fatalf("Offset(%q): %v", seatedTime, err)
		}
		if got < prev {
			t.Fatalf("offset decreased at %q: %d < %d", seatedTime, got, prev)
		}
		prev = got
	}
}

func TestOffset_RejectsMalformedTime(t *testing.T) {
	engine := testEngine(t)
	for _, bad := range []string{"", "9am", "25:00", "12:61"} {
		if _, err := engine.Offset(bad); err == nil {
			t.Errorf("Offset(%q) should fail", bad)
		}
	}
}

func TestWidth_ScalesWithPartyAndClamps(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		guests int
		want   int
	}{
		{1, 120},  // clamped up to two segments
		{4, 120},  // exactly the floor
		{5, 150},
		{8, 240},
		{16, 480}, // clamped to eight segments
		{40, 480},
	}
	for _, tt := range tests {
		if got := engine.Width(tt.guests); got != tt.want {
			t.Errorf("Width(%d) = %d, want %d", tt.guests, got, tt.want)
		}
	}
}

func dayBooking(id, seatedTime string, duration, guests int) *model.Booking {
	return &model.Booking{
		ID:                id,
		BookingSeatedTime: seatedTime,
		Duration:          duration,
		Guests:            guests,
		BookingStatus:     model.StatusPending,
	}
}

func TestAssignLanes_OverlapsNeverShareALane(t *testing.T) {
	bookings := []*model.Booking{
		dayBooking("b1", "12:00", 90, 2),
		dayBooking("b2", "12:30", 90, 2), // overlaps b1
		dayBooking("b3", "12:45", 60, 2), // overlaps b1 and b2
		dayBooking("b4", "13:30", 60, 2), // b1 has ended, reuses its lane
		dayBooking("b5", "18:00", 60, 2), // clear of everything
	}

	lanes := assignLanes(bookings)

	starts := map[string]int{"b1": 720, "b2": 750, "b3": 765, "b4": 810, "b5": 1080}
	ends := map[string]int{"b1": 810, "b2": 840, "b3": 825, "b4": 870, "b5": 1140}
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			overlap := starts[a.ID] < ends[b.ID] && starts[b.ID] < ends[a.ID]
			if overlap && lanes[i] == lanes[j] {
				t.Errorf("%s and %s overlap but share lane %d", a.ID, b.ID, lanes[i])
			}
		}
	}

	if lanes[0] != 0 {
		t.Errorf("first booking of the day should take lane 0, got %d", lanes[0])
	}
	if lanes[3] != 0 {
		t.Errorf("b4 starts after b1 ends and should reuse lane 0, got %d", lanes[3])
	}
	if lanes[4] != 0 {
		t.Errorf("an isolated booking should sit on lane 0, got %d", lanes[4])
	}
}

func TestAssignLanes_GrowsBeyondThreeLanes(t *testing.T) {
	// Four simultaneous bookings need four lanes. The old diary squeezed
	// these onto three lanes round-robin and drew overlapping blocks.
	bookings := []*model.Booking{
		dayBooking("b1", "13:00", 90, 2),
		dayBooking("b2", "13:00", 90, 2),
		dayBooking("b3", "13:00", 90, 2),
		dayBooking("b4", "13:00", 90, 2),
	}

	lanes := assignLanes(bookings)
	seen := map[int]bool{}
	for i, lane := range lanes {
		if seen[lane] {
			t.Fatalf("lane %d assigned twice for simultaneous bookings %v", lane, lanes)
		}
		seen[lane] = true
		_ = i
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct lanes, got %d", len(seen))
	}
}

func TestAssignLanes_DeterministicForEqualStarts(t *testing.T) {
	build := func() []*model.Booking {
		return []*model.Booking{
			dayBooking("b2", "13:00", 90, 2),
			dayBooking("b1", "13:00", 90, 2),
		}
	}

	first := assignLanes(build())
	for i := 0; i < 20; i++ {
		if again := assignLanes(build()); again[0] != first[0] || again[1] != first[1] {
			t.Fatal("lane assignment must be deterministic for identical input")
		}
	}
}

func TestNowOffset_OnlyForTodayInWindow(t *testing.T) {
	engine := testEngine(t)
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("tz: %v", err)
	}

	// 14:30 London time on the displayed date.
	now := time.Date(2026, 9, 12, 13, 30, 0, 0, time.UTC)
	got := engine.NowOffset("2026-09-12", now, london)
	if got == nil {
		t.Fatal("expected a marker for today inside the window")
	}
	// 5.5h past opening, continuous rather than snapped.
	if want := 330 * SegmentWidth / SegmentMinutes; *got != want {
		t.Errorf("marker at %d, want %d", *got, want)
	}

	if engine.NowOffset("2026-09-13", now, london) != nil {
		t.Error("no marker when the displayed date is not today")
	}

	early := time.Date(2026, 9, 12, 5, 0, 0, 0, time.UTC)
	if engine.NowOffset("2026-09-12", early, london) != nil {
		t.Error("no marker before opening")
	}

	late := time.Date(2026, 9, 12, 22, 30, 0, 0, time.UTC)
	if engine.NowOffset("2026-09-12", late, london) != nil {
		t.Error("no marker after close")
	}
}

func TestNowOffset_WindowEndIsExclusive(t *testing.T) {
	engine := testEngine(t)
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("tz: %v", err)
	}

	// 19:00 London is exactly closing time; the marker must already be gone.
	closing := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	if engine.NowOffset("2026-09-12", closing, london) != nil {
		t.Error("no marker at exactly closing time")
	}

	lastMinute := time.Date(2026, 9, 12, 17, 59, 0, 0, time.UTC)
	got := engine.NowOffset("2026-09-12", lastMinute, london)
	if got == nil {
		t.Fatal("expected a marker one minute before close")
	}
	if want := 599 * SegmentWidth / SegmentMinutes; *got != want {
		t.Errorf("marker at %d, want %d", *got, want)
	}
}

func TestNowOffset_VenueTimezoneDecidesToday(t *testing.T) {
	engine := testEngine(t)
	auckland, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Fatalf("tz: %v", err)
	}

	// 23:00 UTC on the 11th is already the 12th in Auckland.
	now := time.Date(2026, 9, 11, 23, 0, 0, 0, time.UTC)
	if engine.NowOffset("2026-09-12", now, auckland) == nil {
		t.Error("the venue's local date decides what counts as today")
	}
	if engine.NowOffset("2026-09-11", now, auckland) != nil {
		t.Error("UTC date must not leak into the marker decision")
	}
}

func TestLayout_AssemblesTheDay(t *testing.T) {
	engine := testEngine(t)

	bookings := []*model.Booking{
		dayBooking("b1", "12:00", 90, 4),
		dayBooking("b2", "12:30", 90, 6),
	}
	bookings[0].Contact = &model.ContactSummary{FirstName: "Sam", LastName: "Archer"}

	day, err := engine.Layout("2026-09-12", bookings, time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if day.Lanes != 2 {
		t.Errorf("two overlapping bookings need two lanes, got %d", day.Lanes)
	}
	if day.ContentWidth != 40*SegmentWidth {
		t.Errorf("ten hours is forty segments, got %d", day.ContentWidth)
	}
	if len(day.HourMarks) != 11 {
		t.Errorf("expected 11 hour marks 09:00 through 19:00, got %d", len(day.HourMarks))
	}
	if day.HourMarks[0].Label != "09:00" || day.HourMarks[0].Offset != 0 {
		t.Errorf("bad first mark %+v", day.HourMarks[0])
	}
	if day.HourMarks[10].Label != "19:00" || day.HourMarks[10].Offset != 40*SegmentWidth {
		t.Errorf("bad last mark %+v", day.HourMarks[10])
	}
	if day.NowOffset == nil {
		t.Error("noon on the displayed day should show the marker")
	}
	if day.Blocks[0].ContactName != "Sam Archer" {
		t.Errorf("contact name not carried: %q", day.Blocks[0].ContactName)
	}
	if day.Blocks[0].Offset != 720 || day.Blocks[1].Offset != 840 {
		t.Errorf("bad offsets: %d, %d", day.Blocks[0].Offset, day.Blocks[1].Offset)
	}
	if day.Blocks[0].Width != 120 || day.Blocks[1].Width != 180 {
		t.Errorf("bad widths: %d, %d", day.Blocks[0].Width, day.Blocks[1].Width)
	}
}

func TestLayout_EmptyDay(t *testing.T) {
	engine := testEngine(t)

	day, err := engine.Layout("2026-09-12", nil, time.Date(2026, 9, 13, 12, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Lanes != 0 || len(day.Blocks) != 0 {
		t.Errorf("empty day should have no lanes or blocks: %+v", day)
	}
	if day.NowOffset != nil {
		t.Error("no marker on another day")
	}
}
