package inventory

import "time"

// displayZone is a constant -4h offset. Flag timestamps are always displayed
// in EDT no matter the host timezone, with no daylight-saving lookup.
var displayZone = time.FixedZone("EDT", -4*60*60)

// FormatEpochMillis renders an epoch-millisecond timestamp for display.
// A missing or zero timestamp renders as "N/A".
func FormatEpochMillis(ms int64) string {
	if ms == 0 {
		return "N/A"
	}
	return time.UnixMilli(ms).In(displayZone).Format("2006-01-02 15:04:05 MST")
}
