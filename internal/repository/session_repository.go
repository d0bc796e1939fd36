package repository

import (
	"context"

	"github.com/iliyamo/auth-service/internal/model"
)

// SessionRepo appends and lists login events.  Rows are never updated.
type SessionRepo struct{ conn }

func (r *SessionRepo) Create(ctx context.Context, s model.Session) error {
	_, err := r.exec(ctx,
		"INSERT INTO sessions (id, user_id, event_date, user_agent, device_type) VALUES (?,?,?,?,?)",
		s.ID, s.UserID, s.EventDate.UTC(), s.UserAgent, string(s.DeviceType))
	return r.translate(err)
}

// ListByUser returns one page of userID's sessions, newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Session, error) {
	rows, err := r.query(ctx,
		`SELECT id, user_id, event_date, user_agent, device_type
		   FROM sessions
		  WHERE user_id = ?
		  ORDER BY event_date DESC, id DESC
		  LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Session{}
	for rows.Next() {
		var (
			s      model.Session
			device string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.EventDate, &s.UserAgent, &device); err != nil {
			return nil, err
		}
		s.DeviceType = model.DeviceType(device)
		s.EventDate = s.EventDate.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}
