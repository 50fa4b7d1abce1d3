package model

import "fmt"

// FormatDuration renders seconds as MM:SS, or H:MM:SS above an hour.
// Non-positive values render as "00:00".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "00:00"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatFileSize renders a byte count in human-readable units.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	for _, unit := range units {
		if size < 1024.0 || unit == "TB" {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", size)
}
