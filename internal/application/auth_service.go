package application

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/karlseguin/ccache/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
	"github.com/oksasatya/go-realty-backend/pkg/helpers"
	"github.com/oksasatya/go-realty-backend/pkg/metrics"
)

// AuthService owns accounts, login sessions and token verification.
type AuthService struct {
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
	Sessions SessionStore // nil means tokens are trusted until expiry
	Notifier *Notifier
	Logger   *logrus.Logger

	cache    *ccache.Cache[*entity.User]
	cacheTTL time.Duration
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, sessions SessionStore, notifier *Notifier, cacheTTL time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		JWT:      jwt,
		Sessions: sessions,
		Notifier: notifier,
		Logger:   logger,
		cache:    ccache.New(ccache.Configure[*entity.User]().MaxSize(5000)),
		cacheTTL: cacheTTL,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      entity.Role
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

var validate = validator.New()

func validEmail(s string) bool { return validate.Var(s, "required,email") == nil }

func (in *RegisterInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	switch {
	case in.Username == "":
		return domain.Validation("username is required")
	case in.Email == "" || !validEmail(in.Email):
		return domain.Validation("a valid email is required")
	case len(in.Password) < 8:
		return domain.Validation("password must be at least 8 characters long")
	}
	if in.Role == "" {
		in.Role = entity.RoleAgent
	}
	if !in.Role.Valid() {
		return domain.Validation("role must be admin or agent")
	}
	return nil
}

// Register is the public sign-up path; it only ever creates agents.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Role == entity.RoleAdmin {
		return nil, domain.Authorization("admin accounts can only be created by an admin")
	}
	return s.create(ctx, in)
}

// CreateUser lets an admin create agents or other admins.
func (s *AuthService) CreateUser(ctx context.Context, caller scope.Identity, in RegisterInput) (*entity.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminOnly
	}
	return s.create(ctx, in)
}

func (s *AuthService) create(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal(err)
	}
	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         in.Role,
		Status:       entity.UserActive,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Notifier.Welcome(ctx, u)
	return u, nil
}

// Login accepts a username or an email. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	u, err := s.Users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	sid := uuid.NewString()
	token, exp, err := s.JWT.Generate(u.ID, u.Username, string(u.Role), sid)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if s.Sessions != nil {
		if err := s.Sessions.Save(ctx, sid, u.ID, u.Username, string(u.Role), s.JWT.TTL); err != nil {
			return nil, domain.Internal(err)
		}
	}
	s.cache.Set(u.ID, u, s.cacheTTL)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user logged in")
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Session is a verified caller.
type Session struct {
	Identity  scope.Identity
	SessionID string
}

// Authenticate verifies a bearer token and checks that its session and account are still live.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	role := entity.Role(claims.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidToken
	}
	if s.Sessions != nil {
		ok, err := s.Sessions.Valid(ctx, claims.SessionID, claims.UserID)
		if err != nil {
			return nil, domain.Internal(err)
		}
		if !ok {
			return nil, domain.ErrInvalidToken
		}
	}
	u, err := s.cachedUser(ctx, claims.UserID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, domain.ErrAccountInactive
	}
	return &Session{
		Identity:  scope.Identity{UserID: claims.UserID, Username: claims.Username, Role: role},
		SessionID: claims.SessionID,
	}, nil
}

func (s *AuthService) cachedUser(ctx context.Context, id string) (*entity.User, error) {
	if item := s.cache.Get(id); item != nil && !item.Expired() {
		metrics.RecordCacheHit()
		return item.Value(), nil
	}
	metrics.RecordCacheMiss()
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id, u, s.cacheTTL)
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	if s.Sessions == nil || sess == nil {
		return nil
	}
	if err := s.Sessions.Delete(ctx, sess.SessionID); err != nil {
		return domain.Internal(err)
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, caller scope.Identity) (*entity.User, error) {
	return s.Users.GetByID(ctx, caller.UserID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, caller scope.Identity, patch repo.UserProfilePatch) (*entity.User, error) {
	if patch.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !validEmail(e) {
			return nil, domain.Validation("a valid email is required")
		}
		patch.Email = &e
	}
	u, err := s.Users.UpdateProfile(ctx, caller.UserID, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(u.ID)
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context, caller scope.Identity, f repo.UserFilter, page repo.Page) ([]entity.User, int, error) {
	if !caller.IsAdmin() {
		return nil, 0, domain.ErrAdminOnly
	}
	return s.Users.List(ctx, f, page)
}

// SetStatus activates or deactivates an account. Deactivation takes effect on the next request
// once the cached status expires; the cache entry is dropped here so it is immediate on this node.
func (s *AuthService) SetStatus(ctx context.Context, caller scope.Identity, userID string, status entity.UserStatus) (*entity.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminOnly
	}
	if !status.Valid() {
		return nil, domain.Validation("status must be active or inactive")
	}
	if userID == caller.UserID && status == entity.UserInactive {
		return nil, domain.Validation("admins cannot deactivate themselves")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	u, err := s.Users.SetStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(userID)
	return u, nil
}
