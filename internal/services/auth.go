package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/cache"
	dbpkg "github.com/yungbote/classroom-backend/internal/data/db"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	BcryptCost int
}

type SignupInput struct {
	Name     string
	Password string
	Role     string
}

type AuthResult struct {
	Token   string
	Account *types.Account
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, name, password string) (*AuthResult, error)
	Logout(ctx context.Context, caller Caller) error
	// Authenticate verifies token and returns ctx carrying its RequestData.
	Authenticate(ctx context.Context, token string) (context.Context, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
	AccessTTL() time.Duration
}

// JWTClaims is the signed payload. RegisteredClaims.ID is the session id.
type JWTClaims struct {
	AccountID string `json:"id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	accounts repos.AccountRepo
	sessions repos.SessionRepo
	cache    cache.SessionCache
	metrics  *observability.Metrics
	cfg      AuthConfig
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	accounts repos.AccountRepo,
	sessions repos.SessionRepo,
	sessionCache cache.SessionCache,
	metrics *observability.Metrics,
	cfg AuthConfig,
) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 7 * 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if sessionCache == nil {
		sessionCache = cache.NewSessionCache(nil, 0, log)
	}
	return &authService{
		db:       db,
		log:      log.With("service", "AuthService"),
		accounts: accounts,
		sessions: sessions,
		cache:    sessionCache,
		metrics:  metrics,
		cfg:      cfg,
	}
}

func (s *authService) AccessTTL() time.Duration { return s.cfg.AccessTTL }

func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	role := strings.TrimSpace(in.Role)
	if name == "" || in.Password == "" || role == "" {
		return nil, apierr.Validation("Missing required fields")
	}
	if !types.ValidRole(role) {
		return nil, apierr.Validation("Role must be teacher or student")
	}

	dbc := dbctx.New(ctx)
	exists, err := s.accounts.NameExists(dbc, name)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if exists {
		s.metrics.IncAuthEvent("signup", false)
		return nil, apierr.Conflict(apierr.CodeUserExists, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("hash password: %w", err))
	}
	account := &types.Account{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}

	var token string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		if err := s.accounts.Create(txc, account); err != nil {
			return err
		}
		tok, err := s.issue(txc, account)
		if err != nil {
			return err
		}
		token = tok
		return nil
	})
	if err != nil {
		if dbpkg.IsDuplicateKey(err) {
			s.metrics.IncAuthEvent("signup", false)
			return nil, apierr.Conflict(apierr.CodeUserExists, "User already exists")
		}
		s.log.Error("signup failed", "error", err)
		return nil, apierr.Internal(err)
	}
	s.metrics.IncAuthEvent("signup", true)
	s.log.Info("account created", "account_id", account.ID, "role", role)
	return &AuthResult{Token: token, Account: account}, nil
}

func (s *authService) Login(ctx context.Context, name, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, apierr.Validation("Missing credentials")
	}
	dbc := dbctx.New(ctx)
	account, err := s.accounts.GetByName(dbc, name)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	// Unknown name and wrong password are indistinguishable to the caller.
	if account == nil {
		s.metrics.IncAuthEvent("login", false)
		return nil, apierr.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.metrics.IncAuthEvent("login", false)
		return nil, apierr.InvalidCredentials()
	}

	token, err := s.issue(dbc, account)
	if err != nil {
		s.log.Error("login: issue token failed", "error", err, "account_id", account.ID)
		return nil, apierr.Internal(err)
	}
	s.metrics.IncAuthEvent("login", true)
	return &AuthResult{Token: token, Account: account}, nil
}

func (s *authService) Logout(ctx context.Context, caller Caller) error {
	if caller.SessionID == uuid.Nil {
		return apierr.Unauthorized(apierr.CodeUnauthorized, "Unauthorized")
	}
	if err := s.sessions.DeleteByID(dbctx.New(ctx), caller.SessionID); err != nil {
		return apierr.Internal(err)
	}
	if err := s.cache.Delete(ctx, caller.SessionID); err != nil {
		s.log.Warn("session cache delete failed", "error", err, "session_id", caller.SessionID)
	}
	s.metrics.IncAuthEvent("logout", true)
	return nil
}

// issue creates the backing session row and signs a token for it.
func (s *authService) issue(dbc dbctx.Context, account *types.Account) (string, error) {
	now := time.Now().UTC()
	session := &types.Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		ExpiresAt: now.Add(s.cfg.AccessTTL),
	}
	if err := s.sessions.Create(dbc, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	claims := JWTClaims{
		AccountID: account.ID.String(),
		Role:      account.Role,
		Name:      account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (context.Context, error) {
	invalid := apierr.Unauthorized(apierr.CodeInvalidToken, "Invalid token")

	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ctx, invalid
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return ctx, invalid
	}
	sessionID, err := uuid.Parse(claims.RegisteredClaims.ID)
	if err != nil {
		return ctx, invalid
	}

	live, err := s.sessionLive(ctx, sessionID, accountID)
	if err != nil {
		return ctx, err
	}
	if !live {
		return ctx, invalid
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		AccountID:   accountID,
		SessionID:   sessionID,
		Role:        claims.Role,
		Name:        claims.Name,
	}), nil
}

func (s *authService) sessionLive(ctx context.Context, sessionID, accountID uuid.UUID) (bool, error) {
	now := time.Now()
	cached, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		s.log.Warn("session cache get failed", "error", err, "session_id", sessionID)
	}
	if cached != nil {
		return cached.AccountID == accountID && now.Before(cached.ExpiresAt), nil
	}

	session, err := s.sessions.GetByID(dbctx.New(ctx), sessionID)
	if err != nil {
		return false, apierr.Internal(err)
	}
	if session == nil || session.AccountID != accountID || session.Expired(now) {
		return false, nil
	}
	if err := s.cache.Set(ctx, cache.CachedSession{
		ID:        session.ID,
		AccountID: session.AccountID,
		ExpiresAt: session.ExpiresAt,
	}); err != nil {
		s.log.Warn("session cache set failed", "error", err, "session_id", sessionID)
	}
	return true, nil
}

// PurgeExpiredSessions deletes session rows whose tokens can no longer verify.
func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(dbctx.New(ctx), time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug("purged expired sessions", "count", n)
	}
	return n, nil
}
