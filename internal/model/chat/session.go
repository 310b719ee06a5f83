package chat

import "time"

// Session is a transient conversation owned by one device.
type Session struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
