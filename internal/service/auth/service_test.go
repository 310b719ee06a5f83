package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notificationModel "github.com/zhouzirui/tradewise/backend/internal/model/notification"
	"github.com/zhouzirui/tradewise/backend/internal/model/user"
	"github.com/zhouzirui/tradewise/backend/internal/service/auth"
	"github.com/zhouzirui/tradewise/backend/internal/service/session"
	"github.com/zhouzirui/tradewise/backend/internal/storage"
)

type recorder struct {
	mu      sync.Mutex
	notices []notificationModel.Notice
}

func (r *recorder) Notify(_ context.Context, n notificationModel.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Title)
	}
	return out
}

// brokenSlots fails every write.
type brokenSlots struct{ *storage.MemorySlots }

func (brokenSlots) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }

// ctxSlots fails reads on a done context, like the sqlite backend does.
type ctxSlots struct{ *storage.MemorySlots }

func (s ctxSlots) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.MemorySlots.Get(ctx, key)
}

func newFacade(t *testing.T, slots storage.Slots) (*auth.Facade, *recorder) {
	t.Helper()
	rec := &recorder{}
	fixed := time.UnixMilli(1744454400000)
	f := auth.NewFacade(context.Background(), session.NewStore(slots, "dev"), rec, auth.Options{
		Now: func() time.Time { return fixed },
	})
	return f, rec
}

func TestSignupEndToEnd(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	f, rec := newFacade(t, slots)

	u, err := f.Signup(ctx, user.SignupForm{Name: "Jane", Email: "jane@x.com", Password: "secret1", AcceptTerms: true})
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, "jane@x.com", u.Email)
	assert.Equal(t, "1744454400000", u.ID)
	assert.Equal(t, user.RiskMedium, u.RiskProfile)
	assert.True(t, f.IsAuthenticated())

	raw, err := slots.Get(ctx, "tradewise_user:dev")
	require.NoError(t, err)
	var persisted user.User
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, u, persisted)
	assert.Equal(t, []string{"Account created"}, rec.titles())
}

func TestSignupValidationNeverAttempts(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	f, rec := newFacade(t, slots)

	_, err := f.Signup(ctx, user.SignupForm{Name: "Jane", Email: "jane@x.com", Password: "short", AcceptTerms: true})
	var verr *user.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
	assert.False(t, f.IsAuthenticated())
	assert.Empty(t, rec.titles())

	_, err = slots.Get(ctx, "tradewise_user:dev")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoginDerivesNameFromEmail(t *testing.T) {
	f, rec := newFacade(t, storage.NewMemorySlots())

	u, err := f.Login(context.Background(), "trader.joe@example.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, "trader.joe", u.Name)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, user.DefaultRiskProfile, u.RiskProfile)
	assert.Equal(t, []string{"Logged in successfully"}, rec.titles())
}

func TestLoginRequiresCredentials(t *testing.T) {
	f, _ := newFacade(t, storage.NewMemorySlots())

	_, err := f.Login(context.Background(), "", "pw")
	var verr *user.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.False(t, f.IsAuthenticated())
}

func TestLoginPersistenceFailureSurfacesNotice(t *testing.T) {
	f, rec := newFacade(t, brokenSlots{storage.NewMemorySlots()})

	_, err := f.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.False(t, f.IsAuthenticated())
	require.Len(t, rec.notices, 1)
	assert.Equal(t, "Login failed", rec.notices[0].Title)
	assert.True(t, rec.notices[0].Failed())
}

func TestLogoutAlwaysAnonymous(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	f, _ := newFacade(t, slots)

	// from anonymous
	require.NoError(t, f.Logout(ctx))
	assert.False(t, f.IsAuthenticated())

	// from authenticated
	_, err := f.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	require.NoError(t, f.Logout(ctx))
	assert.False(t, f.IsAuthenticated())

	_, err = slots.Get(ctx, "tradewise_user:dev")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogoutDuringPendingLoginWins(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	rec := &recorder{}
	f := auth.NewFacade(ctx, session.NewStore(slots, "dev"), rec, auth.Options{Delay: 200 * time.Millisecond})

	done := make(chan error, 1)
	go func() {
		_, err := f.Login(ctx, "late@x.com", "pw")
		done <- err
	}()

	require.Eventually(t, f.IsLoading, time.Second, 5*time.Millisecond)
	require.NoError(t, f.Logout(ctx))

	assert.ErrorIs(t, <-done, auth.ErrSuperseded)
	assert.False(t, f.IsAuthenticated())
	assert.Equal(t, []string{"Logged out"}, rec.titles())

	_, err := slots.Get(ctx, "tradewise_user:dev")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// the facade stays usable afterwards
	_, err = f.Login(ctx, "next@x.com", "pw")
	require.NoError(t, err)
	assert.True(t, f.IsAuthenticated())
}

func TestUpdateUserWithoutUserIsNoop(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	f, rec := newFacade(t, slots)

	name := "Someone"
	_, err := f.UpdateUser(ctx, user.Patch{Name: &name})
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	assert.False(t, f.IsAuthenticated())
	assert.Empty(t, rec.titles())

	_, err = slots.Get(ctx, "tradewise_user:dev")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateUserMergesAndPersists(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	f, _ := newFacade(t, slots)

	before, err := f.Login(ctx, "jane@x.com", "pw")
	require.NoError(t, err)

	high := user.RiskHigh
	after, err := f.UpdateUser(ctx, user.Patch{RiskProfile: &high})
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, user.RiskHigh, after.RiskProfile)

	restored := auth.NewFacade(ctx, session.NewStore(slots, "dev"), nil, auth.Options{})
	got, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, after, got)
}

func TestLoginCancelledLeavesStateUnchanged(t *testing.T) {
	slots := storage.NewMemorySlots()
	rec := &recorder{}
	f := auth.NewFacade(context.Background(), session.NewStore(slots, "dev"), rec, auth.Options{Delay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Login(ctx, "a@b.com", "pw")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.IsAuthenticated())
	assert.False(t, f.IsLoading())
	assert.Empty(t, rec.titles())
}

func TestConcurrentLoginRejected(t *testing.T) {
	f := auth.NewFacade(context.Background(), session.NewStore(storage.NewMemorySlots(), "dev"), nil, auth.Options{Delay: 200 * time.Millisecond})

	done := make(chan error, 1)
	go func() {
		_, err := f.Login(context.Background(), "first@x.com", "pw")
		done <- err
	}()

	require.Eventually(t, f.IsLoading, time.Second, 5*time.Millisecond)
	_, err := f.Login(context.Background(), "second@x.com", "pw")
	assert.ErrorIs(t, err, auth.ErrAuthPending)

	require.NoError(t, <-done)
	u, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, "first@x.com", u.Email)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	f, rec := newFacade(t, storage.NewMemorySlots())

	assert.ErrorIs(t, f.DeleteAccount(ctx), auth.ErrNotAuthenticated)

	_, err := f.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	require.NoError(t, f.DeleteAccount(ctx))
	assert.False(t, f.IsAuthenticated())
	assert.Equal(t, []string{"Logged in successfully", "Account deleted", "Logged out"}, rec.titles())
}

func TestRegistryRestoresOncePerDevice(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	require.NoError(t, session.NewStore(slots, "known").Save(ctx, user.User{ID: "7", Name: "kim", Email: "kim@x.com", RiskProfile: user.RiskLow}))

	reg := auth.NewRegistry(slots, nil, auth.Options{})

	f1, err := reg.Facade(ctx, "known")
	require.NoError(t, err)
	f2, err := reg.Facade(ctx, "known")
	require.NoError(t, err)
	assert.Same(t, f1, f2)

	u, ok := f1.Current()
	require.True(t, ok)
	assert.Equal(t, "kim", u.Name)

	other, err := reg.Facade(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, other.IsAuthenticated())

	_, err = reg.Facade(ctx, "")
	assert.ErrorIs(t, err, auth.ErrDeviceRequired)
}

func TestRegistryRestoreIgnoresRequestCancellation(t *testing.T) {
	slots := ctxSlots{storage.NewMemorySlots()}
	require.NoError(t, session.NewStore(slots, "known").Save(context.Background(), user.User{ID: "7", Name: "kim", Email: "kim@x.com", RiskProfile: user.RiskLow}))

	reg := auth.NewRegistry(slots, nil, auth.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, err := reg.Facade(ctx, "known")
	require.NoError(t, err)
	u, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, "kim", u.Name)

	again, err := reg.Facade(context.Background(), "known")
	require.NoError(t, err)
	assert.True(t, again.IsAuthenticated())
}
