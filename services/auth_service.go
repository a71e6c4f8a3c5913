package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eterna_server/database"
	"eterna_server/lib"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	db           *database.DB
	cacheService *CacheService
	emailService *EmailService
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB, cacheService *CacheService, emailService *EmailService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		db:           db,
		cacheService: cacheService,
		emailService: emailService,
	}
}

// Login verifies the password and then the admin role. A valid password on an
// account without an admin profile is rejected with ErrUnauthorizedAccess.
func (as *AuthService) Login(ctx context.Context, req *structs.AuthRequest) (*structs.AdminSession, error) {
	startTime := time.Now()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := database.Query[tables.User](as.db).Where("email", email).First(ctx)
	if err != nil {
		as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		return nil, lib.ErrInvalidCredentials
	}
	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.Id),
		)
		return nil, lib.ErrInvalidCredentials
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	profile, err := as.loadProfile(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	if !profile.IsAdmin() {
		as.logger.Warn("Sign-in by account without admin role", gecho.Field("user_id", user.Id))
		return nil, lib.ErrUnauthorizedAccess
	}

	as.logger.Debug("Admin signed in",
		gecho.Field("user_id", user.Id),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)

	go as.recordLogin(user.Id)
	as.emailService.SendLoginAlertAsync(user.Email, time.Now())

	return &structs.AdminSession{UserID: user.Id, Email: user.Email, Role: profile.Role}, nil
}

func (as *AuthService) recordLogin(userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := database.Query[tables.User](as.db).
		Where("id", userID).
		Update(ctx, map[string]any{"last_login": time.Now()})
	if err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
}

// VerifyAdmin checks a validated access token against the blacklist and the
// current profile role, so a revoked admin loses access on the next request.
func (as *AuthService) VerifyAdmin(ctx context.Context, claims *structs.AuthClaims) (*structs.AdminSession, error) {
	blacklisted, err := as.cacheService.IsTokenBlacklisted(claims.Jti)
	if err != nil {
		as.logger.Warn("Failed to check token blacklist", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	}
	if blacklisted {
		return nil, lib.ErrInvalidToken
	}

	profile, err := as.cachedProfile(ctx, claims.Sub)
	if err != nil {
		return nil, err
	}
	if !profile.IsAdmin() {
		return nil, lib.ErrUnauthorizedAccess
	}

	return &structs.AdminSession{UserID: claims.Sub, Email: claims.Email, Role: profile.Role}, nil
}

func (as *AuthService) cachedProfile(ctx context.Context, userID uuid.UUID) (*tables.Profile, error) {
	cached, err := as.cacheService.GetProfile(userID)
	if err != nil {
		as.logger.Warn("Failed to get profile from cache", gecho.Field("error", err), gecho.Field("user_id", userID))
	} else if cached != nil {
		return cached, nil
	}

	profile, err := as.loadProfile(ctx, userID)
	if err != nil || profile == nil {
		return profile, err
	}

	go func() {
		if err := as.cacheService.SetProfile(profile); err != nil {
			as.logger.Warn("Failed to cache profile", gecho.Field("error", err), gecho.Field("user_id", userID))
		}
	}()

	return profile, nil
}

// loadProfile reads the profile from the database; nil when the user has none
func (as *AuthService) loadProfile(ctx context.Context, userID uuid.UUID) (*tables.Profile, error) {
	profile, err := database.FindByID[tables.Profile](ctx, as.db, userID)
	if err != nil {
		as.logger.Error("Failed to load profile", gecho.Field("error", err), gecho.Field("user_id", userID))
		return nil, lib.MapPgError(err)
	}
	return profile, nil
}

// Refresh rotates both tokens. The presented refresh token is blacklisted so it
// can be used only once.
func (as *AuthService) Refresh(ctx context.Context, refreshClaims *structs.AuthClaims) (*structs.AdminSession, string, string, error) {
	session, err := as.VerifyAdmin(ctx, refreshClaims)
	if err != nil {
		return nil, "", "", err
	}

	if err := as.cacheService.BlacklistToken(refreshClaims.Jti, refreshClaims.Exp); err != nil {
		as.logger.Warn("Failed to blacklist rotated refresh token", gecho.Field("error", err), gecho.Field("jti", refreshClaims.Jti))
	}

	accessToken, refreshToken, err := as.GenerateTokens(session)
	if err != nil {
		return nil, "", "", err
	}
	return session, accessToken, refreshToken, nil
}

// Logout blacklists every token the browser presented
func (as *AuthService) Logout(claims ...*structs.AuthClaims) {
	for _, c := range claims {
		if c == nil {
			continue
		}
		if err := as.cacheService.BlacklistToken(c.Jti, c.Exp); err != nil {
			as.logger.Warn("Failed to blacklist token on logout", gecho.Field("error", err), gecho.Field("jti", c.Jti))
		}
	}
}

// GenerateTokens issues a fresh access and refresh token pair for a session
func (as *AuthService) GenerateTokens(session *structs.AdminSession) (string, string, error) {
	accessToken, err := signToken(session, as.cfg.Auth.AccessTokenSecret, as.GetAccessTokenExpiration())
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := signToken(session, as.cfg.Auth.RefreshTokenSecret, as.GetRefreshTokenExpiration())
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func signToken(session *structs.AdminSession, secret string, exp time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   session.UserID.String(),
		"email": session.Email,
		"role":  session.Role,
		"iat":   time.Now().Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.New().String(),
	})
	return token.SignedString([]byte(secret))
}

// GetAccessTokenExpiration returns the expiration time for access tokens
func (as *AuthService) GetAccessTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.AccessTokenExpiry)
}

// GetRefreshTokenExpiration returns the expiration time for refresh tokens
func (as *AuthService) GetRefreshTokenExpiration() time.Time {
	return time.Now().Add(as.cfg.Auth.RefreshTokenExpiry)
}

func (as *AuthService) AccessTokenSecret() string {
	return as.cfg.Auth.AccessTokenSecret
}

func (as *AuthService) RefreshTokenSecret() string {
	return as.cfg.Auth.RefreshTokenSecret
}

// CreateAdmin creates an admin account, or promotes and resets the password of
// an existing one, in a single transaction.
func (as *AuthService) CreateAdmin(ctx context.Context, email, password string) (*tables.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, errors.New("an email and a password of at least 8 characters are required")
	}

	hash, err := lib.HashPassword(password, lib.DefaultArgonParams)
	if err != nil {
		return nil, err
	}

	user, err := database.TransactionWithResult(ctx, as.db, func(ctx context.Context, tx bun.Tx) (*tables.User, error) {
		user, err := database.Query[tables.User](tx).Where("email", email).First(ctx)
		if err != nil {
			return nil, err
		}

		if user == nil {
			user, err = database.Query[tables.User](tx).Insert(ctx, &tables.User{
				Id:           uuid.New(),
				Email:        email,
				PasswordHash: hash,
			})
			if err != nil {
				return nil, err
			}
		} else if _, err := database.Query[tables.User](tx).
			Where("id", user.Id).
			Update(ctx, map[string]any{"password_hash": hash}); err != nil {
			return nil, err
		}

		_, err = tx.NewInsert().
			Model(&tables.Profile{Id: user.Id, Role: tables.RoleAdmin}).
			On("CONFLICT (id) DO UPDATE").
			Set("role = EXCLUDED.role").
			Exec(ctx)
		return user, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", lib.MapPgError(err))
	}

	if err := as.cacheService.InvalidateProfile(user.Id); err != nil {
		as.logger.Warn("Failed to invalidate cached profile", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	as.logger.Info("Admin account ready", gecho.Field("user_id", user.Id), gecho.Field("email", email))
	user.PasswordHash = ""
	return user, nil
}
