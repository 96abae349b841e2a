package actors

import (
	"strings"
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/qazimabbas/LostnFound/internal/assets"
	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

const profileImageFolder = "profile_pics"

// Message types for AccountActor
type (
	RegisterAccountMsg struct {
		Name     string
		Username string
		Email    string
		Password string
		Phone    string
	}

	AuthenticateMsg struct {
		Email    string
		Password string
	}

	// UpdateProfileMsg carries partial fields; empty strings mean "leave
	// unchanged". ProfileImage is a base64 data URI.
	UpdateProfileMsg struct {
		AccountID    uuid.UUID
		Name         string
		Username     string
		Email        string
		Phone        string
		Password     string
		ProfileImage string
	}

	GetAccountMsg struct {
		AccountID uuid.UUID
	}
)

// AccountActor owns all account rules: uniqueness of email and username,
// password hashing and verification, profile mutation.
type AccountActor struct {
	store   AccountStore
	relay   assets.Relay
	metrics *utils.MetricsCollector
	log     *zap.SugaredLogger
}

func NewAccountActor(store AccountStore, relay assets.Relay, metrics *utils.MetricsCollector, log *zap.SugaredLogger) actor.Actor {
	return &AccountActor{
		store:   store,
		relay:   relay,
		metrics: metrics,
		log:     log,
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (a *AccountActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RegisterAccountMsg:
		a.handleRegister(context, msg)
	case *AuthenticateMsg:
		a.handleAuthenticate(context, msg)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)
	case *GetAccountMsg:
		a.handleGetAccount(context, msg)
	}
}

func (a *AccountActor) handleRegister(context actor.Context, msg *RegisterAccountMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	existing, err := a.store.GetAccountByEmail(ctx, msg.Email)
	if err != nil && !utils.IsNotFound(err) {
		a.log.Errorw("failed to check email uniqueness", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to register account", err))
		return
	}
	if existing != nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Email already registered", nil))
		return
	}

	existing, err = a.store.GetAccountByUsername(ctx, msg.Username)
	if err != nil && !utils.IsNotFound(err) {
		a.log.Errorw("failed to check username uniqueness", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to register account", err))
		return
	}
	if existing != nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Username already taken", nil))
		return
	}

	hashed, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
		return
	}

	now := time.Now()
	account := &models.Account{
		ID:             uuid.New(),
		Name:           msg.Name,
		Username:       msg.Username,
		Email:          msg.Email,
		HashedPassword: hashed,
		Phone:          msg.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := a.store.SaveAccount(ctx, account); err != nil {
		a.log.Errorw("failed to save account", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save account", err))
		return
	}

	a.log.Infow("account registered", "accountId", account.ID, "username", account.Username)
	a.metrics.AddOperationLatency("register_account", time.Since(startTime))
	context.Respond(account)
}

func (a *AccountActor) handleAuthenticate(context actor.Context, msg *AuthenticateMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	account, err := a.store.GetAccountByEmail(ctx, msg.Email)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewInvalidCredentialsError())
			return
		}
		a.log.Errorw("failed to look up account for login", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to process login", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewInvalidCredentialsError())
		return
	}

	a.metrics.AddOperationLatency("authenticate", time.Since(startTime))
	context.Respond(account)
}

func (a *AccountActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	account, err := a.store.GetAccount(ctx, msg.AccountID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewAccountNotFoundError())
			return
		}
		a.log.Errorw("failed to load account for update", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update profile", err))
		return
	}

	if msg.Username != "" && msg.Username != account.Username {
		other, err := a.store.GetAccountByUsername(ctx, msg.Username)
		if err != nil && !utils.IsNotFound(err) {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update profile", err))
			return
		}
		if other != nil {
			context.Respond(utils.NewAppError(utils.ErrDuplicate, "Username already taken", nil))
			return
		}
		account.Username = msg.Username
	}

	if msg.Email != "" && msg.Email != account.Email {
		other, err := a.store.GetAccountByEmail(ctx, msg.Email)
		if err != nil && !utils.IsNotFound(err) {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update profile", err))
			return
		}
		if other != nil {
			context.Respond(utils.NewAppError(utils.ErrDuplicate, "Email already registered", nil))
			return
		}
		account.Email = msg.Email
	}

	if msg.Name != "" {
		account.Name = msg.Name
	}
	if msg.Phone != "" {
		account.Phone = msg.Phone
	}

	if msg.ProfileImage != "" {
		if !strings.HasPrefix(msg.ProfileImage, "data:image") {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput,
				"Invalid image format. Please provide a valid base64 image string", nil))
			return
		}

		// Removing the old image is best-effort; a host outage must not
		// block the profile update.
		if account.ProfileImage != nil {
			if err := a.relay.Delete(ctx, account.ProfileImage.AssetID); err != nil {
				a.log.Warnw("failed to delete old profile image", "assetId", account.ProfileImage.AssetID, "error", err)
			}
		}

		uploaded, err := a.relay.Upload(ctx, msg.ProfileImage, profileImageFolder)
		if err != nil {
			a.log.Errorw("profile image upload failed", "error", err)
			context.Respond(utils.NewAppError(utils.ErrInvalidInput,
				"Error uploading profile picture. Please try again.", err))
			return
		}
		account.ProfileImage = &uploaded
	}

	if msg.Password != "" {
		if len(msg.Password) < 6 {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput,
				"Password must be at least 6 characters long", nil))
			return
		}
		hashed, err := hashPassword(msg.Password)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
			return
		}
		account.HashedPassword = hashed
	}

	account.UpdatedAt = time.Now()
	if err := a.store.SaveAccount(ctx, account); err != nil {
		a.log.Errorw("failed to save updated account", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Error updating profile", err))
		return
	}

	a.metrics.AddOperationLatency("update_profile", time.Since(startTime))
	context.Respond(account)
}

func (a *AccountActor) handleGetAccount(context actor.Context, msg *GetAccountMsg) {
	ctx := stdctx.Background()

	account, err := a.store.GetAccount(ctx, msg.AccountID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewAccountNotFoundError())
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch account", err))
		return
	}

	context.Respond(account)
}
