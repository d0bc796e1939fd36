package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// DeviceType is the coarse client class derived from a user agent.
type DeviceType string

const (
	DevicePC     DeviceType = "pc"
	DeviceTablet DeviceType = "tablet"
	DeviceMobile DeviceType = "mobile"
	DeviceOther  DeviceType = "other"
)

// Session is one successful login.  Rows are append-only.
type Session struct {
	ID         string     // sessions.id
	UserID     string     // sessions.user_id
	EventDate  time.Time  // sessions.event_date (UTC)
	UserAgent  string     // sessions.user_agent
	DeviceType DeviceType // sessions.device_type
}

// NewSession records a login by userID at the given time and classifies
// the client from its user agent.
func NewSession(userID, userAgent string, at time.Time) Session {
	return Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		EventDate:  at.UTC(),
		UserAgent:  userAgent,
		DeviceType: ClassifyDevice(userAgent),
	}
}

// ClassifyDevice maps a user agent onto a DeviceType.  Desktop wins over
// tablet, tablet over mobile; anything unrecognised is DeviceOther.
func ClassifyDevice(userAgent string) DeviceType {
	if userAgent == "" {
		return DeviceOther
	}
	ua := useragent.Parse(userAgent)
	switch {
	case ua.Desktop:
		return DevicePC
	case ua.Tablet:
		return DeviceTablet
	case ua.Mobile:
		return DeviceMobile
	default:
		return DeviceOther
	}
}
