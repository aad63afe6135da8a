package holiday

import "time"

// Holiday is a public holiday in the shared calendar. Date is unique
// across the calendar.
type Holiday struct {
	ID          string
	Date        time.Time
	Description string
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
