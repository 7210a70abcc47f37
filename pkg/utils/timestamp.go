package utils

import "fmt"

// FormatFrameTimestamp maps a 1-indexed frame number onto its position in the
// source video: frame N is N seconds in, rendered as zero-padded HH:MM:SS.
func FormatFrameTimestamp(frame int) string {
	return FormatSeconds(frame)
}

func FormatSeconds(total int) string {
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
