package session

// ProgressEvent is one step of upload feedback. Percent values are
// non-decreasing over the life of one upload: 10 while preparing,
// 10-80 while bytes are in flight (a flat 40 when the payload size is
// unknown), 85 once the server starts generating, 100 on success.
// Failures drop back to 0 / "Idle".
type ProgressEvent struct {
	Percent int
	Label   string
}

// ClampPercent bounds a percentage to the displayable 0-100 range.
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
