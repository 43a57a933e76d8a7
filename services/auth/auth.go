package auth

import (
	"errors"
	"fmt"
	"time"

	"localserve/apperr"
	"localserve/config"
	"localserve/logger"
	otpModel "localserve/models/otp"
	sessionModel "localserve/models/session"
	userModel "localserve/models/user"
	vendorModel "localserve/models/vendor"
	otpService "localserve/services/otp"
	"localserve/utils"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID uint           `json:"id"`
	Email  string         `json:"email"`
	Role   userModel.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	Token        string           `json:"token"`
	RefreshToken string           `json:"refresh_token"`
	User         userModel.Public `json:"user"`
}

// LoginResult distinguishes a full login from an unverified account that
// was sent a login OTP instead of tokens.
type LoginResult struct {
	NeedsOTP bool       `json:"needs_otp"`
	Email    string     `json:"email,omitempty"`
	Tokens   *TokenPair `json:"-"`
}

// RefreshResult carries the fresh access token. The refresh token is not
// rotated; the presented one stays valid until its session expires.
type RefreshResult struct {
	Token string           `json:"token"`
	User  userModel.Public `json:"user"`
}

// Service is the credential and session authority.
type Service struct {
	DB    *gorm.DB
	Cfg   *config.Config
	OTP   *otpService.Service
	Audit *logger.AsyncLogger
}

func NewService(db *gorm.DB, cfg *config.Config, otp *otpService.Service, audit *logger.AsyncLogger) *Service {
	return &Service{DB: db, Cfg: cfg, OTP: otp, Audit: audit}
}

// RegisterResult is the redacted registration response.
type RegisterResult struct {
	ID    uint           `json:"id"`
	Email string         `json:"email"`
	Role  userModel.Role `json:"role"`
}

// Register upserts an unverified account and triggers a registration OTP.
// A verified account with the same email is a conflict.
func (s *Service) Register(name, email, password string, role userModel.Role) (*RegisterResult, error) {
	var existing userModel.User
	err := s.DB.Where("email = ?", email).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	if err == nil && existing.IsVerified {
		return nil, apperr.Conflict("EMAIL_EXISTS", "An account with this email already exists.")
	}

	passwordHash, hashErr := utils.HashPassword(password)
	if hashErr != nil {
		return nil, apperr.Internal(hashErr)
	}

	var account userModel.User
	if err == nil {
		// Re-register over the unverified record.
		existing.Name = name
		existing.PasswordHash = passwordHash
		existing.Role = role
		if err := s.DB.Save(&existing).Error; err != nil {
			return nil, apperr.Internal(err)
		}
		account = existing
	} else {
		account = userModel.User{Name: name, Email: email, PasswordHash: passwordHash, Role: role}
		if err := s.DB.Create(&account).Error; err != nil {
			return nil, apperr.Internal(err)
		}
	}

	if _, err := s.OTP.Issue(email, otpModel.PurposeRegistration); err != nil {
		return nil, err
	}

	s.audit(&account.ID, email, "registered", string(role))
	return &RegisterResult{ID: account.ID, Email: account.Email, Role: account.Role}, nil
}

// Login validates credentials. Unknown email and wrong password yield the
// same error so neither can be told apart. Unverified accounts get a login
// OTP instead of tokens.
func (s *Service) Login(email, password string) (*LoginResult, error) {
	var account userModel.User
	err := s.DB.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "Invalid email or password.")
		}
		return nil, apperr.Internal(err)
	}

	if account.IsBlocked {
		s.audit(&account.ID, email, "login_blocked", "")
		return nil, apperr.Forbidden("ACCOUNT_BLOCKED", "Your account has been blocked. Contact support.")
	}

	if !utils.CheckPassword(password, account.PasswordHash) {
		s.audit(&account.ID, email, "login_failed", "")
		return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "Invalid email or password.")
	}

	if !account.IsVerified {
		if _, err := s.OTP.Issue(email, otpModel.PurposeLogin); err != nil {
			return nil, err
		}
		return &LoginResult{NeedsOTP: true, Email: account.Email}, nil
	}

	tokens, err := s.IssueTokens(&account)
	if err != nil {
		return nil, err
	}

	s.audit(&account.ID, email, "login", "")
	return &LoginResult{Tokens: tokens}, nil
}

// ResendOTP issues a fresh login-purpose code.
func (s *Service) ResendOTP(email string) error {
	_, err := s.OTP.Issue(email, otpModel.PurposeLogin)
	return err
}

// VerifyAndActivate consumes a registration/login OTP, marks the account
// verified, auto-provisions a vendor profile for vendor accounts and issues
// tokens.
func (s *Service) VerifyAndActivate(email, code string) (*TokenPair, error) {
	if err := s.OTP.Verify(email, code); err != nil {
		return nil, err
	}

	var account userModel.User
	if err := s.DB.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}

	if err := s.DB.Model(&account).Update("is_verified", true).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	account.IsVerified = true

	if account.Role == userModel.RoleVendor {
		if err := s.ensureVendorProfile(&account); err != nil {
			return nil, err
		}
	}

	s.audit(&account.ID, email, "verified", "")
	return s.IssueTokens(&account)
}

func (s *Service) ensureVendorProfile(account *userModel.User) error {
	var existing vendorModel.VendorProfile
	err := s.DB.Where("user_id = ?", account.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal(err)
	}

	profile := vendorModel.VendorProfile{
		UserID:       account.ID,
		BusinessName: account.Name,
		KYCStatus:    "pending",
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return apperr.Internal(err)
	}
	logger.Infof("Created vendor profile for user %d", account.ID)
	return nil
}

// IssueTokens signs an access/refresh pair with independent secrets and
// TTLs, and persists a one-way hash of the refresh token in a new session
// row with its own expiry.
func (s *Service) IssueTokens(account *userModel.User) (*TokenPair, error) {
	accessToken, err := s.signToken(account, s.Cfg.JWTAccessSecret, s.Cfg.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, err := s.signToken(account, s.Cfg.JWTRefreshSecret, s.Cfg.RefreshTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	row := sessionModel.Session{
		UserID:           account.ID,
		RefreshTokenHash: utils.HashToken(refreshToken),
		ExpiresAt:        time.Now().Add(s.Cfg.RefreshTokenTTL),
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to persist session: %w", err))
	}

	if err := s.DB.Model(account).Update("last_login", time.Now()).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &TokenPair{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         account.Public(),
	}, nil
}

func (s *Service) signToken(account *userModel.User, secret string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: account.ID,
		Email:  account.Email,
		Role:   account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry of a token against the given
// secret.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("INVALID_TOKEN", "Invalid or expired token.")
	}
	return claims, nil
}

// RefreshAccessToken verifies a presented refresh token, scans the user's
// live sessions for a matching hash and issues a new access token only.
// Neither the refresh token nor its session row is rotated.
func (s *Service) RefreshAccessToken(refreshToken string) (*RefreshResult, error) {
	claims, err := ParseToken(refreshToken, s.Cfg.JWTRefreshSecret)
	if err != nil {
		return nil, apperr.Unauthorized("INVALID_TOKEN", "Invalid or expired refresh token.")
	}

	var sessions []sessionModel.Session
	if err := s.DB.Where("user_id = ? AND expires_at > ?", claims.UserID, time.Now()).Find(&sessions).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	valid := false
	for _, sess := range sessions {
		if utils.TokenHashEquals(refreshToken, sess.RefreshTokenHash) {
			valid = true
			break
		}
	}
	if !valid {
		s.audit(&claims.UserID, claims.Email, "refresh_rejected", "")
		return nil, apperr.Unauthorized("INVALID_TOKEN", "Invalid or expired refresh token.")
	}

	var account userModel.User
	if err := s.DB.First(&account, claims.UserID).Error; err != nil {
		return nil, apperr.Unauthorized("INVALID_TOKEN", "Invalid or expired refresh token.")
	}

	accessToken, signErr := s.signToken(&account, s.Cfg.JWTAccessSecret, s.Cfg.AccessTokenTTL)
	if signErr != nil {
		return nil, apperr.Internal(signErr)
	}

	s.audit(&account.ID, account.Email, "refresh", "")
	return &RefreshResult{Token: accessToken, User: account.Public()}, nil
}

// Logout deletes every session the user holds: a global sign-out across
// all devices.
func (s *Service) Logout(userID uint) error {
	if err := s.DB.Where("user_id = ?", userID).Delete(&sessionModel.Session{}).Error; err != nil {
		return apperr.Internal(err)
	}
	s.audit(&userID, "", "logout", "")
	return nil
}

func (s *Service) audit(userID *uint, email, event, detail string) {
	if s.Audit != nil {
		s.Audit.Event(userID, email, event, detail)
	}
}
