package eventservice

import (
	"bytes"
	"fmt"
	"time"

	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Roster"

var rosterHeader = []interface{}{"Roll Number", "Name", "Email", "Phone", "Status", "Attended", "Registered At"}

// renderRoster writes the roster as a single-sheet workbook.
func renderRoster(roster []eventdb.RosterEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), rosterSheet); err != nil {
		return nil, fmt.Errorf("failed to name roster sheet: %w", err)
	}

	rows := make([][]interface{}, 0, len(roster)+1)
	rows = append(rows, rosterHeader)
	for _, r := range roster {
		phone := ""
		if r.Phone != nil {
			phone = *r.Phone
		}
		rows = append(rows, []interface{}{
			r.RollNumber,
			r.Name,
			r.Email,
			phone,
			string(r.Status),
			r.Attended,
			r.RegistrationTime.UTC().Format(time.RFC3339),
		})
	}

	for idx := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(rosterSheet, axis, &rows[idx]); err != nil {
			return nil, fmt.Errorf("failed to write roster row %d: %w", idx, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(rosterSheet, 1, 1, style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(rosterSheet, "A", "G", 20); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode roster workbook: %w", err)
	}
	return buf.Bytes(), nil
}
