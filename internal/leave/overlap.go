package leave

import (
	"errors"
	"strings"
	"time"

	"KINTAI-backend/internal/platform/apierr"
)

// Range: 両端を含む暦日の区間（UTC 0時）
type Range struct {
	Start time.Time
	End   time.Time
}

// MySQL の DATE 型が扱える下限
const minYear = 1000

var errYearOutOfRange = errors.New("year out of range")

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < minYear {
		return time.Time{}, errYearOutOfRange
	}
	return t, nil
}

// ParseRange: 日付形式 → 前後関係の順に検証する
func ParseRange(start, end string) (Range, error) {
	s, err := parseDay(start)
	if err != nil {
		return Range{}, apierr.New(apierr.CodeInvalidDate, "start_date must be YYYY-MM-DD")
	}
	e, err := parseDay(end)
	if err != nil {
		return Range{}, apierr.New(apierr.CodeInvalidDate, "end_date must be YYYY-MM-DD")
	}
	if s.After(e) {
		return Range{}, apierr.New(apierr.CodeInvalidRange, "start date cannot be after end date")
	}
	return Range{Start: s, End: e}, nil
}

// Overlaps: 閉区間どうしの重なり。境界日が接しているだけでも重なりとみなす。
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r Range) String() string {
	return r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout)
}

// FirstOverlap: 重なる申請のうち最初の1件（pending / approved のみ対象）
func FirstOverlap(r Range, existing []Request) *Request {
	for i := range existing {
		if !existing[i].Status.Blocking() {
			continue
		}
		if r.Overlaps(existing[i].Span) {
			return &existing[i]
		}
	}
	return nil
}

// FirstAttendanceConflict: 出勤記録のある区間内の最初の日を返す。
// 区間が記録件数より長いときは記録側を走査する。
func FirstAttendanceConflict(r Range, attended map[string]struct{}) (string, bool) {
	if len(attended) == 0 {
		return "", false
	}
	if r.Days() > len(attended) {
		// YYYY-MM-DD は文字列比較で日付順になる
		lo, hi := r.Start.Format(DateLayout), r.End.Format(DateLayout)
		first := ""
		for day := range attended {
			if day < lo || day > hi {
				continue
			}
			if first == "" || day < first {
				first = day
			}
		}
		return first, first != ""
	}
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		day := d.Format(DateLayout)
		if _, ok := attended[day]; ok {
			return day, true
		}
	}
	return "", false
}
