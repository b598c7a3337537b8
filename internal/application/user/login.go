package user

import (
	"context"
	"strings"

	"luminara/internal/domain/user"
	"luminara/internal/infrastructure/auth"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

// LoginCommand carries login credentials.
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult pairs the authenticated user with their tokens.
type LoginResult struct {
	User   *user.User
	Tokens *auth.TokenPair
}

type LoginUseCase struct {
	userRepo   user.Repository
	hasher     PasswordHasher
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	jwtService *auth.JWTService,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	usr, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err != nil {
		uc.logger.Errorw("failed to look up user", "error", err)
		return nil, errors.NewInternalError("failed to look up user", err.Error())
	}
	// One message for both unknown email and wrong password.
	if usr == nil {
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}
	if err := uc.hasher.Verify(cmd.Password, usr.PasswordHash()); err != nil {
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}
	if !usr.IsActive() {
		return nil, errors.NewForbiddenError("account is suspended")
	}

	tokens, err := uc.jwtService.Generate(usr.SID())
	if err != nil {
		uc.logger.Errorw("failed to issue tokens", "user_sid", usr.SID(), "error", err)
		return nil, errors.NewInternalError("failed to issue tokens", err.Error())
	}

	uc.logger.Infow("user logged in", "user_sid", usr.SID())
	return &LoginResult{User: usr, Tokens: tokens}, nil
}

// Refresh rotates a refresh token into a new token pair.
func (uc *LoginUseCase) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	tokens, err := uc.jwtService.Refresh(refreshToken)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid refresh token")
	}
	return tokens, nil
}
