// Package auth is the only way the dashboard changes who is signed in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	notificationModel "github.com/zhouzirui/tradewise/backend/internal/model/notification"
	"github.com/zhouzirui/tradewise/backend/internal/model/user"
	"github.com/zhouzirui/tradewise/backend/internal/service/notification"
	"github.com/zhouzirui/tradewise/backend/internal/service/session"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAuthPending      = errors.New("authentication already in progress")
	ErrSuperseded       = errors.New("logged out while authentication was pending")
)

// DefaultDelay is the simulated round trip of login and signup.
const DefaultDelay = time.Second

// Options tune a Facade.
type Options struct {
	Delay time.Duration
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Facade holds the signed-in user of one device. Login and signup accept any
// credentials; nothing is verified.
type Facade struct {
	store    *session.Store
	notifier notification.Notifier
	delay    time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	current *user.User
	// epoch counts logouts; a pending login that sees it change is dropped
	epoch   uint64
	pending atomic.Bool
}

// NewFacade builds a facade and restores any persisted session. Restoration
// happens here and nowhere else.
func NewFacade(ctx context.Context, store *session.Store, notifier notification.Notifier, opts Options) *Facade {
	opts = opts.withDefaults()
	if notifier == nil {
		notifier = notification.NotifierFunc(func(context.Context, notificationModel.Notice) {})
	}

	f := &Facade{
		store:    store,
		notifier: notifier,
		delay:    opts.Delay,
		now:      opts.Now,
	}
	if u, ok := store.Load(ctx); ok {
		f.current = &u
		slog.Debug("session restored", "key", store.Key(), "user", u.ID)
	}
	return f
}

// Current returns a copy of the signed-in user.
func (f *Facade) Current() (user.User, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current == nil {
		return user.User{}, false
	}
	return *f.current, true
}

// IsAuthenticated reports whether a user is signed in.
func (f *Facade) IsAuthenticated() bool {
	_, ok := f.Current()
	return ok
}

// IsLoading reports whether a login or signup is waiting on its delay.
func (f *Facade) IsLoading() bool {
	return f.pending.Load()
}

// Login signs in with any non-empty email and password. The user name is the
// email's local part.
func (f *Facade) Login(ctx context.Context, email, password string) (user.User, error) {
	form := user.LoginForm{Email: strings.TrimSpace(email), Password: password}
	if err := form.Validate(); err != nil {
		return user.User{}, err
	}

	u := user.User{
		ID:          uuid.NewString(),
		Name:        user.LocalPart(form.Email),
		Email:       form.Email,
		RiskProfile: user.DefaultRiskProfile,
	}

	err := f.establish(ctx, u)
	if err != nil {
		if !isCancel(err) {
			f.notifier.Notify(ctx, notificationModel.Notice{
				Title:       "Login failed",
				Description: "Please check your credentials and try again.",
				Variant:     notificationModel.VariantDestructive,
			})
		}
		return user.User{}, fmt.Errorf("login: %w", err)
	}

	f.notifier.Notify(ctx, notificationModel.Notice{
		Title:       "Logged in successfully",
		Description: fmt.Sprintf("Welcome back, %s!", u.Name),
	})
	return u, nil
}

// Signup validates the form and signs in a new user whose id is derived from
// the current time.
func (f *Facade) Signup(ctx context.Context, form user.SignupForm) (user.User, error) {
	if err := form.Validate(); err != nil {
		return user.User{}, err
	}

	u := user.User{
		ID:          strconv.FormatInt(f.now().UnixMilli(), 10),
		Name:        strings.TrimSpace(form.Name),
		Email:       strings.TrimSpace(form.Email),
		RiskProfile: user.DefaultRiskProfile,
	}

	err := f.establish(ctx, u)
	if err != nil {
		if !isCancel(err) {
			f.notifier.Notify(ctx, notificationModel.Notice{
				Title:       "Registration failed",
				Description: "There was an error creating your account.",
				Variant:     notificationModel.VariantDestructive,
			})
		}
		return user.User{}, fmt.Errorf("signup: %w", err)
	}

	f.notifier.Notify(ctx, notificationModel.Notice{
		Title:       "Account created",
		Description: "Your account has been created successfully.",
	})
	return u, nil
}

// establish waits out the simulated delay, persists u and makes it current.
// A second call while one is waiting fails with ErrAuthPending, and a logout
// during the wait makes it fail with ErrSuperseded.
func (f *Facade) establish(ctx context.Context, u user.User) error {
	// read before pending is visible so any logout seen as concurrent counts
	f.mu.RLock()
	epoch := f.epoch
	f.mu.RUnlock()

	if !f.pending.CompareAndSwap(false, true) {
		return ErrAuthPending
	}
	defer f.pending.Store(false)

	if err := utils.Sleep(ctx, f.delay); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.epoch != epoch {
		return ErrSuperseded
	}
	if err := f.store.Save(ctx, u); err != nil {
		return err
	}
	f.current = &u
	return nil
}

// Logout forgets the user and clears the slot. The facade is anonymous
// afterwards even when clearing the slot fails.
func (f *Facade) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.current = nil
	f.epoch++
	err := f.store.Clear(ctx)
	f.mu.Unlock()

	if err != nil {
		slog.Error("failed to clear session slot", "key", f.store.Key(), "error", err)
	}

	f.notifier.Notify(ctx, notificationModel.Notice{
		Title:       "Logged out",
		Description: "You have been logged out successfully.",
	})
	return err
}

// UpdateUser merges patch into the signed-in user and persists the result.
// Without a user it changes nothing and returns ErrNotAuthenticated.
func (f *Facade) UpdateUser(ctx context.Context, patch user.Patch) (user.User, error) {
	if err := patch.Validate(); err != nil {
		return user.User{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current == nil {
		return user.User{}, ErrNotAuthenticated
	}

	updated := patch.Apply(*f.current)
	if err := f.store.Save(ctx, updated); err != nil {
		f.notifier.Notify(ctx, notificationModel.Notice{
			Title:       "Error",
			Description: "There was a problem updating your profile.",
			Variant:     notificationModel.VariantDestructive,
		})
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	f.current = &updated

	f.notifier.Notify(ctx, notificationModel.Notice{
		Title:       "Profile updated",
		Description: "Your profile has been updated successfully.",
	})
	return updated, nil
}

// DeleteAccount announces the deletion and logs out.
func (f *Facade) DeleteAccount(ctx context.Context) error {
	if !f.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	f.notifier.Notify(ctx, notificationModel.Notice{
		Title:       "Account deleted",
		Description: "Your account has been deleted successfully.",
	})
	return f.Logout(ctx)
}

// isCancel reports failures that are not worth a failure notice.
func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrSuperseded)
}
