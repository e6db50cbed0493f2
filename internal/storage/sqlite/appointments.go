package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fbianco/edbot/internal/core"
)

func (r *ProfileRepo) AddAppointment(ctx context.Context, appt core.Appointment) (int64, error) {
	query := `INSERT INTO appointments (title, description, moment, recurring, weekdays, notify)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		appt.Title,
		appt.Description,
		appt.Moment.UTC().Format(time.RFC3339),
		boolToInt(appt.Recurring),
		encodeWeekdays(appt.Weekdays),
		boolToInt(appt.Notify),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert appointment: %w", err)
	}
	return res.LastInsertId()
}

// NextAppointments returns up to limit appointments with moment >= now,
// ascending by moment.
func (r *ProfileRepo) NextAppointments(ctx context.Context, limit int) ([]core.Appointment, error) {
	query := `SELECT id, title, description, moment, recurring, weekdays, notify
		FROM appointments WHERE moment >= ? ORDER BY moment ASC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, r.timestamp(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appts []core.Appointment
	for rows.Next() {
		var a core.Appointment
		var moment, weekdays string
		var recurring, notify int
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &moment, &recurring, &weekdays, &notify); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		a.Moment, err = time.Parse(time.RFC3339, moment)
		if err != nil {
			return nil, fmt.Errorf("failed to parse appointment moment: %w", err)
		}
		a.Recurring = recurring != 0
		a.Notify = notify != 0
		a.Weekdays = decodeWeekdays(weekdays)
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
