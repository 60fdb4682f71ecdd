package leave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KINTAI-backend/internal/platform/apierr"
)

func mustRange(t *testing.T, start, end string) Range {
	t.Helper()
	r, err := ParseRange(start, end)
	require.NoError(t, err)
	return r
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		code       apierr.Code
	}{
		{"bad start", "2024/01/10", "2024-01-12", apierr.CodeInvalidDate},
		{"bad end", "2024-01-10", "12 Jan", apierr.CodeInvalidDate},
		{"time component", "2024-01-10T09:00:00", "2024-01-12", apierr.CodeInvalidDate},
		{"not a calendar day", "2024-02-30", "2024-03-01", apierr.CodeInvalidDate},
		// 形式エラーが前後関係より先
		{"bad format wins over range", "2024-01-12", "oops", apierr.CodeInvalidDate},
		{"reversed", "2024-01-12", "2024-01-10", apierr.CodeInvalidRange},
		{"year zero", "0000-01-01", "2024-01-01", apierr.CodeInvalidDate},
		{"year below 1000", "2024-01-01", "0999-12-31", apierr.CodeInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRange(tc.start, tc.end)
			assert.True(t, apierr.Is(err, tc.code), "got %v", err)
		})
	}

	r := mustRange(t, " 2024-01-10 ", "2024-01-10")
	assert.Equal(t, 1, r.Days())
	assert.Equal(t, "2024-01-10 to 2024-01-10", r.String())
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, "2024-01-10", "2024-01-12")
	cases := []struct {
		start, end string
		want       bool
	}{
		{"2024-01-12", "2024-01-15", true}, // 境界日
		{"2024-01-08", "2024-01-10", true},
		{"2024-01-11", "2024-01-11", true},
		{"2024-01-01", "2024-01-31", true},
		{"2024-01-13", "2024-01-15", false},
		{"2024-01-05", "2024-01-09", false},
	}
	for _, tc := range cases {
		other := mustRange(t, tc.start, tc.end)
		assert.Equal(t, tc.want, base.Overlaps(other), "%s", other)
		// 対称性
		assert.Equal(t, tc.want, other.Overlaps(base), "%s (swapped)", other)
	}
}

func TestFirstOverlapSkipsRejected(t *testing.T) {
	span := mustRange(t, "2024-01-10", "2024-01-12")
	existing := []Request{
		{ID: 1, Span: mustRange(t, "2024-01-11", "2024-01-11"), Status: StatusRejected},
		{ID: 2, Span: mustRange(t, "2024-01-01", "2024-01-05"), Status: StatusApproved},
		{ID: 3, Span: mustRange(t, "2024-01-12", "2024-01-20"), Status: StatusPending},
	}
	hit := FirstOverlap(span, existing)
	require.NotNil(t, hit)
	assert.Equal(t, int64(3), hit.ID)

	assert.Nil(t, FirstOverlap(span, existing[:2]))
}

func TestFirstAttendanceConflict(t *testing.T) {
	span := mustRange(t, "2024-01-30", "2024-02-02")
	for _, day := range []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"} {
		got, ok := FirstAttendanceConflict(span, map[string]struct{}{day: {}, "2024-03-01": {}})
		assert.True(t, ok, day)
		assert.Equal(t, day, got)
	}

	_, ok := FirstAttendanceConflict(span, map[string]struct{}{"2024-01-29": {}, "2024-02-03": {}})
	assert.False(t, ok)

	// 複数あれば最初の日
	got, ok := FirstAttendanceConflict(span, map[string]struct{}{"2024-02-02": {}, "2024-01-31": {}})
	assert.True(t, ok)
	assert.Equal(t, "2024-01-31", got)

	// 1日だけの区間は日付を進める側で判定
	got, ok = FirstAttendanceConflict(mustRange(t, "2024-02-01", "2024-02-01"), map[string]struct{}{"2024-02-01": {}, "2024-02-02": {}})
	assert.True(t, ok)
	assert.Equal(t, "2024-02-01", got)
}

func TestFirstAttendanceConflictWideRange(t *testing.T) {
	span := mustRange(t, "1000-01-01", "9999-12-31")
	got, ok := FirstAttendanceConflict(span, map[string]struct{}{"9999-12-30": {}, "2024-02-03": {}, "2024-02-01": {}})
	assert.True(t, ok)
	assert.Equal(t, "2024-02-01", got)

	_, ok = FirstAttendanceConflict(mustRange(t, "2024-01-01", "2024-12-31"), map[string]struct{}{"2023-12-31": {}, "2025-01-01": {}})
	assert.False(t, ok)

	_, err := ParseRange("1000-01-01", "1000-01-01")
	assert.NoError(t, err)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))
	assert.False(t, StatusRejected.Blocking())
}
