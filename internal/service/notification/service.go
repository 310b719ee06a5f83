package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/tradewise/backend/internal/model/notification"
)

// ErrUnknownTab is returned for a filter that is neither "all" nor a notification type.
var ErrUnknownTab = errors.New("unknown notification tab")

// TabAll selects every notification.
const TabAll = "all"

const subscriberBuffer = 16

// Notifier receives notices raised by other services.
type Notifier interface {
	Notify(ctx context.Context, notice notification.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, notice notification.Notice)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, notice notification.Notice) {
	f(ctx, notice)
}

type feed struct {
	mu      sync.Mutex
	items   []notification.Notification
	subs    map[int]chan notification.Notification
	nextSub int
}

// Service keeps one notification feed per device, seeded on first access.
type Service struct {
	mu    sync.RWMutex
	feeds map[string]*feed
	now   func() time.Time
}

// NewService returns an empty service.
func NewService() *Service {
	return &Service{
		feeds: make(map[string]*feed),
		now:   time.Now,
	}
}

func (s *Service) feed(deviceID string) *feed {
	s.mu.RLock()
	f, ok := s.feeds[deviceID]
	s.mu.RUnlock()
	if ok {
		return f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok = s.feeds[deviceID]; ok {
		return f
	}
	created := s.now().UTC()
	items := notification.Seed()
	for i := range items {
		items[i].CreatedAt = created
	}
	f = &feed{items: items, subs: make(map[int]chan notification.Notification)}
	s.feeds[deviceID] = f
	return f
}

// ValidTab reports whether tab is accepted by List.
func ValidTab(tab string) bool {
	switch notification.Type(tab) {
	case TabAll, "", notification.TypeAlert, notification.TypePrice, notification.TypeNews, notification.TypeSystem:
		return true
	}
	return false
}

// List returns the device's notifications, newest first, filtered by tab.
func (s *Service) List(_ context.Context, deviceID, tab string) ([]notification.Notification, error) {
	if !ValidTab(tab) {
		return nil, ErrUnknownTab
	}

	f := s.feed(deviceID)
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]notification.Notification, 0, len(f.items))
	for _, item := range f.items {
		if tab == "" || tab == TabAll || string(item.Type) == tab {
			out = append(out, item)
		}
	}
	return out, nil
}

// UnreadCount counts notifications not yet marked read.
func (s *Service) UnreadCount(_ context.Context, deviceID string) int {
	f := s.feed(deviceID)
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, item := range f.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkAllRead flags every notification read and returns how many changed.
func (s *Service) MarkAllRead(_ context.Context, deviceID string) int {
	f := s.feed(deviceID)
	f.mu.Lock()
	defer f.mu.Unlock()

	changed := 0
	for i := range f.items {
		if !f.items[i].Read {
			f.items[i].Read = true
			changed++
		}
	}
	return changed
}

// Push records notice as a system notification and fans it out to subscribers.
func (s *Service) Push(_ context.Context, deviceID string, notice notification.Notice) notification.Notification {
	variant := notice.Variant
	if variant == "" {
		variant = notification.VariantDefault
	}
	item := notification.Notification{
		ID:        uuid.NewString(),
		Type:      notification.TypeSystem,
		Title:     notice.Title,
		Message:   notice.Description,
		Time:      "Just now",
		Variant:   variant,
		CreatedAt: s.now().UTC(),
	}

	f := s.feed(deviceID)
	f.mu.Lock()
	f.items = append([]notification.Notification{item}, f.items...)
	for id, ch := range f.subs {
		select {
		case ch <- item:
		default:
			slog.Warn("notification subscriber lagging, dropping push", "device", deviceID, "subscriber", id)
		}
	}
	f.mu.Unlock()

	return item
}

// Subscribe returns a channel of pushes for deviceID and a cancel func that
// closes it.
func (s *Service) Subscribe(deviceID string) (<-chan notification.Notification, func()) {
	f := s.feed(deviceID)
	ch := make(chan notification.Notification, subscriberBuffer)

	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// NotifierFor binds a Notifier to one device feed.
func (s *Service) NotifierFor(deviceID string) Notifier {
	return NotifierFunc(func(ctx context.Context, notice notification.Notice) {
		s.Push(ctx, deviceID, notice)
	})
}
