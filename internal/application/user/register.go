// Package user holds account lifecycle use cases: registration, login and
// token refresh.
package user

import (
	"context"
	"strings"

	"luminara/internal/domain/user"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/id"
	"luminara/internal/shared/logger"
)

// PasswordHasher abstracts the password hashing scheme.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// WelcomeNotifier sends the post-registration welcome email.
type WelcomeNotifier interface {
	SendWelcomeEmail(to, name string) error
}

// RegisterCommand carries the registration form.
type RegisterCommand struct {
	Email    string
	Name     string
	Password string
	Locale   string
}

type RegisterUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	notifier WelcomeNotifier
	logger   logger.Interface
}

// NewRegisterUseCase creates the registration use case. notifier may be nil
// when email delivery is not configured.
func NewRegisterUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	notifier WelcomeNotifier,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

const minPasswordLength = 8

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*user.User, error) {
	if len(cmd.Password) < minPasswordLength {
		return nil, errors.NewValidationError("password must be at least 8 characters")
	}

	// same normalization the aggregate applies, so the uniqueness check and
	// the stored row agree
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to check email existence", "error", err)
		return nil, errors.NewInternalError("failed to check email", err.Error())
	}
	if exists {
		return nil, errors.NewConflictError("email is already registered")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to process password", err.Error())
	}

	sid, err := id.GenerateWithPrefix(id.PrefixUser, id.DefaultLength)
	if err != nil {
		return nil, errors.NewInternalError("failed to generate user ID", err.Error())
	}

	usr, err := user.NewUser(sid, email, cmd.Name, hash)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	usr.SetLocale(cmd.Locale)

	if err := uc.userRepo.Create(ctx, usr); err != nil {
		uc.logger.Errorw("failed to create user", "email", usr.Email(), "error", err)
		return nil, errors.NewInternalError("failed to create user", err.Error())
	}

	uc.logger.Infow("user registered", "user_sid", usr.SID())

	if uc.notifier != nil {
		if err := uc.notifier.SendWelcomeEmail(usr.Email(), usr.Name()); err != nil {
			// Registration already succeeded; delivery failures are not the
			// user's problem.
			uc.logger.Warnw("failed to send welcome email", "user_sid", usr.SID(), "error", err)
		}
	}

	return usr, nil
}
