package format

import "time"

// appleEpoch is the reference date of the binary plist date type:
// 2001-01-01T00:00:00Z. Dates are stored as a float64 of seconds relative
// to it, so sub-second precision degrades for instants far from 2001.
var appleEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeFromAppleSeconds converts a stored date payload into a time.Time.
func TimeFromAppleSeconds(secs float64) time.Time {
	whole := int64(secs)
	frac := secs - float64(whole)
	return appleEpoch.Add(time.Duration(whole)*time.Second + time.Duration(frac*float64(time.Second))).UTC()
}

// AppleSecondsFromTime converts t into the float64 seconds offset the
// format stores.
func AppleSecondsFromTime(t time.Time) float64 {
	d := t.Sub(appleEpoch)
	return d.Seconds()
}
