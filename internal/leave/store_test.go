package leave

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leaveCols = []string{
	"id", "leave_ulid", "employee_id", "name", "start_date", "end_date",
	"reason", "status", "approved_by", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return NewStore(conn), mock
}

func TestStoreListBlocking(t *testing.T) {
	s, mock := newMockStore(t)
	ts := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE l.employee_id = \? AND l.status IN \('pending', 'approved'\) ORDER BY l.id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(leaveCols).
			AddRow(1, "01HQ0000000000000000000001", 1, "Taro", "2024-01-10", "2024-01-12", "trip", "pending", nil, ts, ts).
			AddRow(2, "01HQ0000000000000000000002", 1, "Taro", "2024-02-01", "2024-02-01", "clinic", "approved", 9, ts, ts))

	list, err := s.ListBlocking(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-10 to 2024-01-12", list[0].Span.String())
	assert.Nil(t, list[0].ApprovedBy)
	require.NotNil(t, list[1].ApprovedBy)
	assert.Equal(t, int64(9), *list[1].ApprovedBy)
	assert.Equal(t, StatusApproved, list[1].Status)
}

func TestStoreAttendanceDates(t *testing.T) {
	s, mock := newMockStore(t)
	in := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM attendance\s+WHERE employee_id = \? ORDER BY date ASC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "date", "punch_in", "punch_out"}).
			AddRow(1, 1, "2024-02-01", in, nil).
			AddRow(2, 1, "2024-02-02", in.Add(24*time.Hour), nil))

	set, err := s.AttendanceDates(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Contains(t, set, "2024-02-01")
}

func TestStoreInsert(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	r := &Request{
		ULID:       "01HQ0000000000000000000001",
		EmployeeID: 1,
		Span:       Range{Start: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)},
		Reason:     "trip",
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	mock.ExpectExec(`INSERT INTO leave_requests`).
		WithArgs(r.ULID, int64(1), "2024-01-10", "2024-01-12", "trip", "pending", now, now).
		WillReturnResult(sqlmock.NewResult(5, 1))

	require.NoError(t, s.Insert(context.Background(), r))
	assert.Equal(t, int64(5), r.ID)
}

func TestStoreDecideQueries(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)
	ts := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE l.id = \? FOR UPDATE OF l`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(leaveCols))
	r, err := s.GetForUpdate(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, r)

	mock.ExpectExec(`UPDATE leave_requests SET status = \?, approved_by = \?, updated_at = \? WHERE id = \?`).
		WithArgs("approved", int64(9), ts, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateStatus(ctx, 3, StatusApproved, 9, ts))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leave_requests WHERE status = \?`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	n, err := s.CountByStatus(ctx, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStoreRejectsBadDate(t *testing.T) {
	s, mock := newMockStore(t)
	ts := time.Now()
	mock.ExpectQuery(`ORDER BY l.id`).
		WillReturnRows(sqlmock.NewRows(leaveCols).
			AddRow(1, "u", 1, "Taro", "0000-00-00", "2024-01-12", "r", "pending", nil, ts, ts))

	_, err := s.ListAll(context.Background())
	assert.Error(t, err)
}
