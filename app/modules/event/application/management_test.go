package eventservice

import (
	"bytes"
	"context"
	"testing"

	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRoster_RequiresHead(t *testing.T) {
	h := newHarness(t)
	event := h.approvedEvent(nil)
	register(t, h, event.ID, "a@x.edu")

	_, err := h.svc.Roster(context.Background(), 7, event.ID)
	assert.ErrorIs(t, err, ErrNotClubHead)

	_, err = h.svc.Roster(context.Background(), 42, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)

	roster, err := h.svc.Roster(context.Background(), 42, event.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestExportRoster(t *testing.T) {
	h := newHarness(t)
	event := h.approvedEvent(intPtr(1))
	register(t, h, event.ID, "a@x.edu")
	register(t, h, event.ID, "b@x.edu")

	export, err := h.svc.ExportRoster(context.Background(), 42, event.ID)
	require.NoError(t, err)
	assert.Contains(t, export.Filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(export.Content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Roll Number", rows[0][0])
	assert.Equal(t, string(eventdomain.StatusRegistered), rows[1][4])
	assert.Equal(t, string(eventdomain.StatusWaitlisted), rows[2][4])
}

func TestMarkAttendance(t *testing.T) {
	h := newHarness(t)
	event := h.approvedEvent(nil)
	res := register(t, h, event.ID, "a@x.edu")

	require.NoError(t, h.svc.MarkAttendance(context.Background(), 42, event.ID, res.Registration.ID, true))
	assert.True(t, h.repo.registrations[res.Registration.ID].Attended)

	err := h.svc.MarkAttendance(context.Background(), 42, event.ID, 9999, true)
	assert.ErrorIs(t, err, errAttendanceNotFound)

	err = h.svc.MarkAttendance(context.Background(), 7, event.ID, res.Registration.ID, false)
	assert.ErrorIs(t, err, ErrNotClubHead)
	assert.True(t, h.repo.registrations[res.Registration.ID].Attended)
}

func TestSaveWinners(t *testing.T) {
	h := newHarness(t)
	event := h.approvedEvent(intPtr(2))
	register(t, h, event.ID, "a@x.edu")
	register(t, h, event.ID, "b@x.edu")
	register(t, h, event.ID, "c@x.edu")

	a, _ := h.students.GetByEmail(context.Background(), nil, "a@x.edu")
	b, _ := h.students.GetByEmail(context.Background(), nil, "b@x.edu")
	c, _ := h.students.GetByEmail(context.Background(), nil, "c@x.edu")

	tests := []struct {
		name    string
		winners []WinnerInput
		wantErr error
	}{
		{name: "duplicate position", winners: []WinnerInput{{a.ID, 1}, {b.ID, 1}}, wantErr: ErrInvalidWinners},
		{name: "zero position", winners: []WinnerInput{{a.ID, 0}}, wantErr: ErrInvalidWinners},
		{name: "same student twice", winners: []WinnerInput{{a.ID, 1}, {a.ID, 2}}, wantErr: ErrInvalidWinners},
		{name: "waitlisted winner", winners: []WinnerInput{{c.ID, 1}}, wantErr: ErrWinnerNotRegistered},
		{name: "unregistered winner", winners: []WinnerInput{{12345, 1}}, wantErr: ErrWinnerNotRegistered},
		{name: "valid", winners: []WinnerInput{{b.ID, 2}, {a.ID, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := h.svc.SaveWinners(context.Background(), 42, event.ID, tt.winners)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, saved, 2)
			assert.Equal(t, a.ID, saved[0].StudentID)
			assert.Equal(t, 1, saved[0].Position)
		})
	}

	listed, err := h.svc.ListWinners(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
