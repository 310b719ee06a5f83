package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// DeviceCookie carries the browser's device id.
	DeviceCookie = "tw_device"
	// DeviceHeader lets non-browser clients name their device.
	DeviceHeader = "X-Device-ID"

	maxDeviceIDLength = 64
)

type contextKey int

const deviceKey contextKey = iota

// WithDevice stores a device id in ctx.
func WithDevice(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceKey, deviceID)
}

// DeviceID returns the device id stored by Device, or "".
func DeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceKey).(string)
	return id
}

// Device resolves the caller's device from the X-Device-ID header or the
// tw_device cookie, minting and setting a new cookie when neither is
// present.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := validDeviceID(r.Header.Get(DeviceHeader))
		if id == "" {
			if c, err := r.Cookie(DeviceCookie); err == nil {
				id = validDeviceID(c.Value)
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     DeviceCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   365 * 24 * 60 * 60,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithDevice(r.Context(), id)))
	})
}

func validDeviceID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxDeviceIDLength {
		return ""
	}
	for _, c := range raw {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return ""
		}
	}
	return raw
}
