package utils

import "fmt"

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count in a compact human-readable form,
// one decimal below 10 units and none above.
func FormatBytes(size int64) string {
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	if value < 10 {
		return fmt.Sprintf("%.1f%s", value, byteUnits[unit])
	}
	return fmt.Sprintf("%.0f%s", value, byteUnits[unit])
}

func TruncateString(s string, max int) string {
	if max < 3 {
		max = 3
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
