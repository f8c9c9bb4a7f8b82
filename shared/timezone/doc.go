// Package timezone pins wall-clock time to the zone named by APP_TIMEZONE.
//
// Booking dates are calendar days, so "today" depends on where the lab is:
//
//	today := timezone.Today()                 // civil.Date in the lab's zone
//	stamp := timezone.Format(t, time.RFC3339) // audit timestamps
//
// An unknown or empty zone falls back to UTC with a log line.
package timezone
