package actors

import (
	"testing"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

type accountFixture struct {
	system *actor.ActorSystem
	pid    *actor.PID
	store  *memAccountStore
	relay  *fakeRelay
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	system := actor.NewActorSystem()
	store := newMemAccountStore()
	relay := &fakeRelay{}
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewAccountActor(store, relay, utils.NewMetricsCollector(), testLogger())
	})
	return &accountFixture{
		system: system,
		pid:    system.Root.Spawn(props),
		store:  store,
		relay:  relay,
	}
}

func (f *accountFixture) register(t *testing.T, username, email string) *models.Account {
	t.Helper()
	result := ask(t, f.system, f.pid, &RegisterAccountMsg{
		Name:     "Test User",
		Username: username,
		Email:    email,
		Password: "secret123",
		Phone:    "5551234567",
	})
	account, ok := result.(*models.Account)
	require.True(t, ok, "expected account, got %T: %v", result, result)
	return account
}

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newAccountFixture(t)

	account := f.register(t, "alice", "alice@example.com")
	assert.Equal(t, "alice", account.Username)
	assert.NotEqual(t, "secret123", account.HashedPassword)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte("secret123")))

	result := ask(t, f.system, f.pid, &AuthenticateMsg{Email: "alice@example.com", Password: "secret123"})
	authed, ok := result.(*models.Account)
	require.True(t, ok, "expected account, got %T: %v", result, result)
	assert.Equal(t, account.ID, authed.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAccountFixture(t)
	f.register(t, "alice", "alice@example.com")

	result := ask(t, f.system, f.pid, &RegisterAccountMsg{
		Name:     "Other",
		Username: "bob",
		Email:    "alice@example.com",
		Password: "secret123",
		Phone:    "5550000000",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)
	assert.Equal(t, "Email already registered", appErr.Message)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newAccountFixture(t)
	f.register(t, "alice", "alice@example.com")

	result := ask(t, f.system, f.pid, &RegisterAccountMsg{
		Name:     "Other",
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
		Phone:    "5550000000",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)
	assert.Equal(t, "Username already taken", appErr.Message)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	f := newAccountFixture(t)
	f.register(t, "alice", "alice@example.com")

	result := ask(t, f.system, f.pid, &AuthenticateMsg{Email: "alice@example.com", Password: "wrong"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	f := newAccountFixture(t)

	result := ask(t, f.system, f.pid, &AuthenticateMsg{Email: "nobody@example.com", Password: "secret123"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	f := newAccountFixture(t)
	account := f.register(t, "alice", "alice@example.com")

	result := ask(t, f.system, f.pid, &UpdateProfileMsg{
		AccountID: account.ID,
		Name:      "Alice Renamed",
		Phone:     "5559999999",
	})
	updated, ok := result.(*models.Account)
	require.True(t, ok, "expected account, got %T: %v", result, result)
	assert.Equal(t, "Alice Renamed", updated.Name)
	assert.Equal(t, "5559999999", updated.Phone)
	assert.Equal(t, "alice", updated.Username, "unset fields stay unchanged")
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUpdateProfileUsernameCollision(t *testing.T) {
	f := newAccountFixture(t)
	f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")

	result := ask(t, f.system, f.pid, &UpdateProfileMsg{AccountID: bob.ID, Username: "alice"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	// Resubmitting your own current username is not a collision.
	result = ask(t, f.system, f.pid, &UpdateProfileMsg{AccountID: bob.ID, Username: "bob"})
	_, ok = result.(*models.Account)
	assert.True(t, ok, "expected account, got %T: %v", result, result)
}

func TestUpdateProfileShortPassword(t *testing.T) {
	f := newAccountFixture(t)
	account := f.register(t, "alice", "alice@example.com")

	result := ask(t, f.system, f.pid, &UpdateProfileMsg{AccountID: account.ID, Password: "abc"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
	assert.Equal(t, "Password must be at least 6 characters long", appErr.Message)
}

func TestUpdateProfileImageReplacement(t *testing.T) {
	f := newAccountFixture(t)
	account := f.register(t, "alice", "alice@example.com")

	result := ask(t, f.system, f.pid, &UpdateProfileMsg{
		AccountID:    account.ID,
		ProfileImage: "data:image/png;base64,AAAA",
	})
	updated, ok := result.(*models.Account)
	require.True(t, ok, "expected account, got %T: %v", result, result)
	require.NotNil(t, updated.ProfileImage)
	firstAsset := updated.ProfileImage.AssetID

	// A second upload removes the previous hosted image.
	result = ask(t, f.system, f.pid, &UpdateProfileMsg{
		AccountID:    account.ID,
		ProfileImage: "data:image/png;base64,BBBB",
	})
	updated, ok = result.(*models.Account)
	require.True(t, ok)
	assert.NotEqual(t, firstAsset, updated.ProfileImage.AssetID)
	assert.Contains(t, f.relay.deletedAssets(), firstAsset)
}

func TestUpdateProfileRejectsNonDataURI(t *testing.T) {
	f := newAccountFixture(t)
	account := f.register(t, "alice", "alice@example.com")

	result := ask(t, f.system, f.pid, &UpdateProfileMsg{
		AccountID:    account.ID,
		ProfileImage: "https://example.com/avatar.png",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestGetAccountNotFound(t *testing.T) {
	f := newAccountFixture(t)

	result := ask(t, f.system, f.pid, &GetAccountMsg{AccountID: uuid.New()})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrAccountNotFound, appErr.Code)
}
