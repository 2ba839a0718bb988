package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/platform/mailer"
	"github.com/phrazzld/flashlists/internal/redact"
	"github.com/phrazzld/flashlists/internal/service/auth"
	"github.com/phrazzld/flashlists/internal/store"
	"github.com/phrazzld/flashlists/internal/task"
)

// UserService provides account operations.
type UserService interface {
	// Register creates an unverified account and queues the verification email.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Verify marks the account behind a verification token as verified.
	Verify(ctx context.Context, token string) error

	// Login checks the credentials of a verified account and issues an
	// access token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Me returns the account of userID.
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ForgotPassword queues a password reset email. An unknown email returns
	// store.ErrUserNotFound.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword sets a new password for the account behind a reset token.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// UserServiceDeps are the collaborators of the user service.
type UserServiceDeps struct {
	Users     store.UserStore
	Tx        store.Transactor
	Tokens    auth.JWTService
	Passwords auth.PasswordVerifier
	Queue     task.TaskQueueWriter
	Mailer    mailer.Sender
	// PublicURL prefixes links in account emails.
	PublicURL string
}

type userService struct {
	deps   UserServiceDeps
	logger *slog.Logger
}

var _ UserService = (*userService)(nil)

// NewUserService creates a UserService.
func NewUserService(deps UserServiceDeps, log *slog.Logger) (UserService, error) {
	if deps.Users == nil || deps.Tx == nil || deps.Tokens == nil ||
		deps.Passwords == nil || deps.Queue == nil || deps.Mailer == nil {
		return nil, errors.New("user service: missing dependency")
	}
	if log == nil {
		log = slog.Default()
	}
	return &userService{
		deps:   deps,
		logger: log.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email", slog.String("email", redact.Email(user.Email)))
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	issued, err := s.deps.Tokens.GenerateToken(ctx, user.ID, auth.TokenTypeVerify)
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}
	s.enqueueMail(ctx, mailer.VerificationMessage(s.deps.PublicURL, user.Email, user.Username, issued.Value))

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Verify implements UserService.
func (s *userService) Verify(ctx context.Context, token string) error {
	claims, err := s.deps.Tokens.ValidateToken(ctx, token, auth.TokenTypeVerify)
	if err != nil {
		return err
	}
	if err := s.deps.Users.MarkVerified(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("user verified",
		slog.String("user_id", claims.UserID.String()))
	return nil
}

// Login implements UserService.
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.deps.Users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.deps.Passwords.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, ErrEmailNotVerified
	}

	issued, err := s.deps.Tokens.GenerateToken(ctx, user.ID, auth.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &LoginResult{User: user, Token: issued.Value, ExpiresAt: issued.ExpiresAt}, nil
}

// Me implements UserService.
func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// ForgotPassword implements UserService.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.deps.Users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	issued, err := s.deps.Tokens.GenerateToken(ctx, user.ID, auth.TokenTypeReset)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}
	s.enqueueMail(ctx, mailer.ResetMessage(s.deps.PublicURL, user.Email, user.Username, issued.Value))

	logger.FromContextOrDefault(ctx, s.logger).Info("password reset requested",
		slog.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword implements UserService.
func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.deps.Tokens.ValidateToken(ctx, token, auth.TokenTypeReset)
	if err != nil {
		return err
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	err = s.deps.Tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.deps.Users.WithTx(tx)
		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		user.Password = newPassword
		user.UpdatedAt = time.Now().UTC()
		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("password reset",
		slog.String("user_id", claims.UserID.String()))
	return nil
}

// enqueueMail hands msg to the worker pool. A full or closed queue is logged
// and does not fail the request; the account change is already stored.
func (s *userService) enqueueMail(ctx context.Context, msg mailer.Message) {
	if err := s.deps.Queue.Enqueue(task.NewMailTask(s.deps.Mailer, msg)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to enqueue email",
			slog.Any("error", err),
			slog.String("to", redact.Email(msg.To)),
			slog.String("subject", msg.Subject))
	}
}
