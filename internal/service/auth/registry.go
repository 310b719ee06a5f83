package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/zhouzirui/tradewise/backend/internal/service/notification"
	"github.com/zhouzirui/tradewise/backend/internal/service/session"
	"github.com/zhouzirui/tradewise/backend/internal/storage"
)

// ErrDeviceRequired is returned when a request carries no device identity.
var ErrDeviceRequired = errors.New("device id is required")

// NotifierResolver returns the notifier for a device.
type NotifierResolver func(deviceID string) notification.Notifier

// Registry hands out one Facade per device, creating and restoring it on
// first use.
type Registry struct {
	slots    storage.Slots
	notifier NotifierResolver
	opts     Options

	mu      sync.Mutex
	facades map[string]*Facade
}

// NewRegistry builds a registry over slots. notifier may be nil.
func NewRegistry(slots storage.Slots, notifier NotifierResolver, opts Options) *Registry {
	return &Registry{
		slots:    slots,
		notifier: notifier,
		opts:     opts,
		facades:  make(map[string]*Facade),
	}
}

// Facade returns the device's facade.
func (r *Registry) Facade(ctx context.Context, deviceID string) (*Facade, error) {
	if deviceID == "" {
		return nil, ErrDeviceRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.facades[deviceID]; ok {
		return f, nil
	}

	var n notification.Notifier
	if r.notifier != nil {
		n = r.notifier(deviceID)
	}
	// the restored facade outlives the request that created it
	f := NewFacade(context.WithoutCancel(ctx), session.NewStore(r.slots, deviceID), n, r.opts)
	r.facades[deviceID] = f
	return f, nil
}

// Forget drops the cached facade. The persisted slot is untouched.
func (r *Registry) Forget(deviceID string) {
	r.mu.Lock()
	delete(r.facades, deviceID)
	r.mu.Unlock()
}
