package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// deriveSlot turns a seated date and time into the stored slot fields. Both
// the create and update paths go through here so the two can never disagree
// about how a slot timestamp is derived.
func deriveSlot(date, timeOfDay string) (time.Time, string, error) {
	slot, err := time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid seated date/time %q %q: %w", date, timeOfDay, err)
	}
	slot = slot.UTC()
	return slot, slot.Format(time.RFC3339), nil
}

// newBookingReference generates the customer-facing reference, BK- followed
// by eight hex characters.
func newBookingReference() string {
	id := uuid.New()
	return "BK-" + strings.ToUpper(id.String()[:8])
}
