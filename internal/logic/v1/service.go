package v1

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yys/user-service/internal/core/domain"
	"github.com/yys/user-service/internal/logger"
	"github.com/yys/user-service/middleware"
)

// UserService implements the user-account business rules. It depends on the
// repository and cache interfaces (injected via constructor) and MUST NOT
// access the database, Redis or SQL directly.
type UserService struct {
	users    domain.UserRepository
	sessions domain.SessionCache
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(users domain.UserRepository, sessions domain.SessionCache) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
	}
}

// hashPassword returns the hex MD5 digest of the plaintext password.
//
// SECURITY: MD5 without a salt is a known deficiency of this design,
// preserved on purpose so stored digests and test vectors stay compatible
// with the system this service replaces. See README.md and DESIGN.md.
func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// newToken generates an opaque session token: a UUID with the dashes
// stripped.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Register creates a new active account after an application-level username
// uniqueness pre-check. The check-then-insert sequence is not wrapped in a
// transaction and there is no unique constraint on username, so two
// concurrent registrations of the same name can race (see DESIGN.md).
func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "user.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	count, err := s.users.CountByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count username %q: %w", req.Username, err)
	}
	if count > 0 {
		span.SetAttributes(attribute.Bool("registration.success", false))
		log.Warn().Str("username", req.Username).Msg("Username already taken")
		return nil, fmt.Errorf("register user %q: %w", req.Username, ErrUsernameTaken)
	}

	user := &domain.User{
		Username: req.Username,
		Password: hashPassword(req.Password),
		Nickname: req.Nickname,
		Email:    req.Email,
		Phone:    req.Phone,
		Status:   domain.StatusActive,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", created.ID),
		attribute.Bool("registration.success", true),
	)
	log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("User registered")

	return created.ToProfile(), nil
}

// Login verifies credentials against an active account, issues an opaque
// token and caches the profile under it with the session TTL.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "user.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	user, err := s.users.GetActiveByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user %q: %w", req.Username, err)
	}
	if user == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		log.Warn().Str("username", req.Username).Msg("Login for unknown or disabled user")
		return "", fmt.Errorf("authenticate user %q: %w", req.Username, ErrUserNotFoundOrDisabled)
	}

	if hashPassword(req.Password) != user.Password {
		span.SetAttributes(attribute.Bool("auth.success", false))
		log.Warn().Str("username", req.Username).Msg("Password mismatch")
		return "", fmt.Errorf("authenticate user %q: %w", req.Username, ErrPasswordMismatch)
	}

	token := newToken()
	if err := s.sessions.Set(ctx, token, user.ToProfile()); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("cache session: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User logged in")

	return token, nil
}

// Logout deletes the cached session for the token. Logging out a token that
// was never issued, or has already expired, succeeds silently.
func (s *UserService) Logout(ctx context.Context, token string) error {
	ctx, span := middleware.StartSpan(ctx, "user.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.sessions.Delete(ctx, token); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session: %w", err)
	}

	logger.FromContext(ctx).Info().Msg("User logged out")
	return nil
}

// GetSession resolves a token to the profile cached at login time.
// Returns (nil, nil) when the token is absent or expired.
func (s *UserService) GetSession(ctx context.Context, token string) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get_session", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	profile, err := s.sessions.Get(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read session: %w", err)
	}

	span.SetAttributes(attribute.Bool("session.valid", profile != nil))
	return profile, nil
}

// GetUserInfo fetches a profile by id.
func (s *UserService) GetUserInfo(ctx context.Context, id int64) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get_info", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("get user %d: %w", id, ErrUserNotFound)
	}

	return user.ToProfile(), nil
}

// GetUserPage returns one page of active users ordered by id, together with
// the total active-user count.
func (s *UserService) GetUserPage(ctx context.Context, req domain.PageRequest) (*domain.PageResult, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get_page", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("page.num", req.PageNum),
		attribute.Int("page.size", req.PageSize),
	))
	defer span.End()

	req.Normalize()

	total, err := s.users.CountActive(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count users: %w", err)
	}

	users, err := s.users.ListActive(ctx, req.PageSize, req.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	records := make([]*domain.Profile, 0, len(users))
	for _, u := range users {
		records = append(records, u.ToProfile())
	}

	span.SetAttributes(attribute.Int64("page.total", total))
	return &domain.PageResult{Total: total, Records: records}, nil
}

// UpdateUser overwrites the non-zero fields of the identified account, then
// re-fetches and returns the updated profile. The write-then-read sequence
// is not atomic; a concurrent delete between the two steps surfaces as
// ErrUserNotFound.
func (s *UserService) UpdateUser(ctx context.Context, req domain.UpdateRequest) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "user.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", req.ID),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	user := &domain.User{
		ID:       req.ID,
		Nickname: req.Nickname,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if req.Password != "" {
		user.Password = hashPassword(req.Password)
	}

	affected, err := s.users.Update(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %d: %w", req.ID, err)
	}
	log.Debug().Int64("user_id", req.ID).Int64("rows_affected", affected).Msg("User update applied")

	profile, err := s.GetUserInfo(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", req.ID).Msg("User updated")
	return profile, nil
}

// DeleteUser removes the account with the given id. A missing id is a
// silent no-op from the caller's perspective; it is only logged.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "user.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	affected, err := s.users.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if affected > 0 {
		log.Info().Int64("user_id", id).Msg("User deleted")
	} else {
		log.Warn().Int64("user_id", id).Msg("Delete matched no user")
	}
	return nil
}
