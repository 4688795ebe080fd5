package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"
)

const healthColumns = `id, user_id, timestamp, heart_rate, steps, sleep_hours,
	heart_rate_variability, body_temperature, device_id, device_type`

type healthStore struct {
	db *sql.DB
}

var _ ports.HealthMetricRepository = (*healthStore)(nil)

func (s *healthStore) Save(ctx context.Context, m *entities.HealthMetric) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO health_metrics (`+healthColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.UserID, formatTime(m.Timestamp), nullInt(m.HeartRate), nullInt(m.Steps),
		nullFloat(m.SleepHours), nullInt(m.HeartRateVariability), nullFloat(m.BodyTemperature),
		nullString(m.DeviceID), m.DeviceType)
	if err != nil {
		return pkgerrors.NewDatabaseError("save health metric", err)
	}
	return nil
}

func (s *healthStore) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]*entities.HealthMetric, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if from != nil {
		where = append(where, "timestamp >= ?")
		args = append(args, formatTime(*from))
	}
	if to != nil {
		where = append(where, "timestamp <= ?")
		args = append(args, formatTime(*to))
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+healthColumns+` FROM health_metrics WHERE `+
		strings.Join(where, " AND ")+` ORDER BY timestamp DESC, id`, args...)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query health metrics", err)
	}
	defer rows.Close()

	out := []*entities.HealthMetric{}
	for rows.Next() {
		m, err := scanHealth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("iterate health metrics", err)
	}
	return out, nil
}

func (s *healthStore) LatestByUser(ctx context.Context, userID string) (*entities.HealthMetric, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+healthColumns+` FROM health_metrics
		WHERE user_id = ? ORDER BY timestamp DESC, id LIMIT 1`, userID)
	m, err := scanHealth(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrHealthMetricNotFound
	}
	return m, err
}

func scanHealth(row scanner) (*entities.HealthMetric, error) {
	var (
		m                  entities.HealthMetric
		ts                 string
		heartRate, steps   sql.NullInt64
		hrv                sql.NullInt64
		sleep, temperature sql.NullFloat64
		deviceID           sql.NullString
	)
	if err := row.Scan(&m.ID, &m.UserID, &ts, &heartRate, &steps, &sleep, &hrv, &temperature, &deviceID, &m.DeviceType); err != nil {
		return nil, err
	}
	m.HeartRate = intPtr(heartRate)
	m.Steps = intPtr(steps)
	m.SleepHours = floatPtr(sleep)
	m.HeartRateVariability = intPtr(hrv)
	m.BodyTemperature = floatPtr(temperature)
	m.DeviceID = stringPtr(deviceID)

	var err error
	if m.Timestamp, err = parseTime(ts); err != nil {
		return nil, fmt.Errorf("health metric %s: %w", m.ID, err)
	}
	return &m, nil
}
