package exportx

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shiftcore/workforce/internal/models"
)

const isoLayout = time.RFC3339

func formatTime(t time.Time) string { return t.Format(isoLayout) }

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatOptInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// KioskEventRow pairs a KioskEvent with the join fields its CSV column
// set needs but does not itself carry.
type KioskEventRow struct {
	Event        models.KioskEvent
	ReceivedAt   time.Time
	DeviceName   string
	BranchName   string
	UserFullName string
}

// KioskEventsTable builds the "Kiosk events" export. Rows must
// already be ordered by the caller (occurred-at asc, id asc).
func KioskEventsTable(rows []KioskEventRow) Table {
	t := Table{Columns: []string{
		"ID", "Received At", "Occurred At", "Device", "Branch", "Type", "Status",
		"Reject Code", "User", "Idempotency Key", "Time Entry ID", "Break Entry ID",
	}}
	for _, r := range rows {
		e := r.Event
		t.Rows = append(t.Rows, []string{
			e.ID.String(),
			formatTime(r.ReceivedAt),
			formatTime(e.OccurredAt),
			r.DeviceName,
			r.BranchName,
			string(e.Type),
			string(e.Status),
			e.RejectCode,
			r.UserFullName,
			e.IdempotencyKey,
			uuidOrEmpty(e.TimeEntryID),
			uuidOrEmpty(e.BreakEntryID),
		})
	}
	return t
}

func uuidOrEmpty(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// PINAttemptRow pairs a KioskPINAttempt with its join fields.
type PINAttemptRow struct {
	Attempt      models.KioskPINAttempt
	DeviceName   string
	BranchName   string
	UserFullName string
}

// PINAttemptsTable builds the "PIN attempts" export.
func PINAttemptsTable(rows []PINAttemptRow) Table {
	t := Table{Columns: []string{
		"Timestamp", "Device", "Branch", "PIN (masked)", "Success", "User", "IP Address",
	}}
	for _, r := range rows {
		a := r.Attempt
		t.Rows = append(t.Rows, []string{
			formatTime(a.AttemptedAt),
			r.DeviceName,
			r.BranchName,
			a.MaskedPIN,
			formatBool(a.Success),
			r.UserFullName,
			a.IP,
		})
	}
	return t
}

// ComplianceIncidentRow pairs a ComplianceIncident with its join fields
// and the monetary penalty derived from its penalty-minutes.
type ComplianceIncidentRow struct {
	Incident          models.ComplianceIncident
	UserFullName      string
	UserEmail         string
	BranchName        string
	PenaltyAmountCents int64
	Currency          string
}

// ComplianceIncidentsTable builds the "Compliance incidents" export.
func ComplianceIncidentsTable(rows []ComplianceIncidentRow) Table {
	t := Table{Columns: []string{
		"Incident ID", "Incident Date", "Type", "Severity", "Title", "User ID", "User Name",
		"User Email", "Branch ID", "Branch Name", "Time Entry ID", "Penalty Minutes",
		"Penalty Amount Cents", "Currency", "Resolved", "Resolved At", "Created At",
	}}
	for _, r := range rows {
		i := r.Incident
		t.Rows = append(t.Rows, []string{
			i.ID.String(),
			formatTime(i.IncidentDate),
			string(i.Type),
			string(i.Severity),
			incidentTitle(i.Type),
			i.UserID.String(),
			r.UserFullName,
			r.UserEmail,
			i.BranchID.String(),
			r.BranchName,
			i.TimeEntryID.String(),
			strconv.Itoa(i.PenaltyMinutes),
			strconv.FormatInt(r.PenaltyAmountCents, 10),
			r.Currency,
			formatBool(i.Resolved),
			formatOptTime(i.ResolvedAt),
			formatTime(i.CreatedAt),
		})
	}
	return t
}

func incidentTitle(t models.IncidentType) string {
	switch t {
	case models.MealBreakMissed:
		return "Meal break missed"
	case models.MealBreakShort:
		return "Meal break too short"
	case models.RestBreakMissed:
		return "Rest break missed"
	case models.RestBreakShort:
		return "Rest break too short"
	default:
		return string(t)
	}
}

// TimeEntryRow pairs a TimeEntry with its join fields.
type TimeEntryRow struct {
	Entry        models.TimeEntry
	UserFullName string
	UserEmail    string
	Role         string
}

// TimeEntriesTable builds the "Time entries with geo" export.
func TimeEntriesTable(rows []TimeEntryRow) Table {
	t := Table{Columns: []string{
		"Entry ID", "User ID", "User Name", "User Email", "Clock In", "Clock Out", "Method",
		"Overtime Minutes", "Approved", "Shift ID", "Role", "Clock In Lat", "Clock In Lng",
		"Clock In Accuracy (m)", "Clock In Source", "Clock Out Lat", "Clock Out Lng",
		"Clock Out Accuracy (m)", "Clock Out Source",
	}}
	for _, r := range rows {
		e := r.Entry
		shiftID := ""
		if e.ShiftID != nil {
			shiftID = e.ShiftID.String()
		}
		clockOutSource := ""
		if e.ClockOutSource != nil {
			clockOutSource = string(*e.ClockOutSource)
		}
		clockInSource := ""
		if e.ClockInSource != nil {
			clockInSource = string(*e.ClockInSource)
		}
		t.Rows = append(t.Rows, []string{
			e.ID.String(),
			e.UserID.String(),
			r.UserFullName,
			r.UserEmail,
			formatTime(e.ClockInAt),
			formatOptTime(e.ClockOutAt),
			string(e.Method),
			formatOptInt(e.OvertimeMinutes),
			formatBool(e.Approved),
			shiftID,
			r.Role,
			formatOptFloat(e.ClockInLat),
			formatOptFloat(e.ClockInLng),
			formatOptFloat(e.ClockInAccuracy),
			clockInSource,
			formatOptFloat(e.ClockOutLat),
			formatOptFloat(e.ClockOutLng),
			formatOptFloat(e.ClockOutAccuracy),
			clockOutSource,
		})
	}
	return t
}
