package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Los_Angeles")
	if err != nil {
		panic(err)
	}
}

// the schedule and catalog publish campus-local (Pacific) dates, so pin the
// clock there regardless of where the process runs
func Now() time.Time {
	return time.Now().In(Location)
}
