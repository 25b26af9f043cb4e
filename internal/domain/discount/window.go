package discount

import (
	"time"

	"ecadmin/internal/apperr"
)

// 割引の有効期間 [StartAt, EndAt)
type Window struct {
	StartAt time.Time
	EndAt   time.Time
}

// NewWindowは start > end を弾く
func NewWindow(startAt, endAt time.Time) (Window, error) {
	if startAt.After(endAt) {
		return Window{}, apperr.Validation("start_at must not be after end_at")
	}
	return Window{StartAt: startAt, EndAt: endAt}, nil
}

// Overlaps reports whether two half-open windows intersect.
// Touching endpoints ([10,20) and [20,30)) do not overlap.
func Overlaps(a, b Window) bool {
	return a.StartAt.Before(b.EndAt) && a.EndAt.After(b.StartAt)
}

// FindOverlapは既存の期間のうち候補と重なる最初のindexを返す
func FindOverlap(existing []Window, candidate Window) (int, bool) {
	for i, w := range existing {
		if Overlaps(w, candidate) {
			return i, true
		}
	}
	return -1, false
}
