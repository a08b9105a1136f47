package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"answerhub/internal/config"
	"answerhub/internal/model"
	"answerhub/internal/pkg/metrics"
	"answerhub/internal/pkg/verifycode"
	"answerhub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mailer 发送验证码邮件。发送是即发即忘语义，usecase 不做重试。
type Mailer interface {
	SendVerificationCode(toEmail string, code string) error
}

// CodeLimiter 控制验证码发送频率。
type CodeLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// AuthUsecase 认证相关的应用逻辑：注册、登录、令牌、邮箱激活。
type AuthUsecase struct {
	users   *repository.Repository[model.User]
	cfg     *config.AuthConfig
	codes   *verifycode.Store
	mailer  Mailer
	limiter CodeLimiter
	logger  *slog.Logger
}

// NewAuth 创建认证 usecase。limiter 可以为 nil，表示不限流。
func NewAuth(cfg *config.AuthConfig, codes *verifycode.Store, mailer Mailer, limiter CodeLimiter, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:   repository.New[model.User](),
		cfg:     cfg,
		codes:   codes,
		mailer:  mailer,
		limiter: limiter,
		logger:  logger,
	}
}

// Register 注册新用户。邮箱已占用时返回 ErrEmailRegistered，
// 新用户以未激活状态创建，密码只保存 bcrypt 哈希。
func (u *AuthUsecase) Register(ctx context.Context, db *gorm.DB, email, password, firstName, lastName string) (*model.User, error) {
	email = normalizeEmail(email)

	existing, err := u.users.GetBy(ctx, db, repository.Filters{"email": email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		HashedPassword: string(hash),
		IsActive:       false,
	}
	if err := u.users.Create(ctx, db, user); err != nil {
		return nil, err
	}

	if u.logger != nil {
		u.logger.Info("user registered", slog.String("email", email))
	}
	return user, nil
}

// Login 校验凭证并签发访问令牌。
//
// 未知邮箱、未激活用户、无密码哈希、密码不匹配，一律返回
// ErrCredentials，不区分原因。成功时更新 last_login。
func (u *AuthUsecase) Login(ctx context.Context, db *gorm.DB, email, password string) (string, error) {
	email = normalizeEmail(email)

	user, err := u.users.GetBy(ctx, db, repository.Filters{"email": email})
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive || user.HashedPassword == "" {
		return "", ErrCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", ErrCredentials
	}

	now := time.Now()
	if _, err := u.users.UpdateBy(ctx, db, map[string]any{"last_login": now}, repository.Filters{"id": user.ID}); err != nil {
		return "", err
	}

	token, err := u.issueToken(user.Email)
	if err != nil {
		return "", err
	}

	if u.logger != nil {
		u.logger.Info("user logged in", slog.String("email", email))
	}
	return token, nil
}

// VerifyToken 解析并校验令牌的签名与有效期。
func (u *AuthUsecase) VerifyToken(tokenStr string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(u.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrCredentials
	}
	return claims, nil
}

// GetCurrent 根据令牌返回当前用户。
//
// subject 缺失、用户不存在或未激活都视为凭证错误。
func (u *AuthUsecase) GetCurrent(ctx context.Context, db *gorm.DB, tokenStr string) (*model.User, error) {
	claims, err := u.VerifyToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrCredentials
	}

	user, err := u.users.GetBy(ctx, db, repository.Filters{"email": claims.Subject})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrCredentials
	}
	return user, nil
}

// SendEmailCode 生成 6 位验证码，带 TTL 写入存储并通过邮件下发。
//
// 用户不存在返回 ErrUserNotFound，已激活返回 ErrUserActive，
// 发送过于频繁返回 ErrCodeThrottled。
func (u *AuthUsecase) SendEmailCode(ctx context.Context, db *gorm.DB, email string) error {
	email = normalizeEmail(email)

	user, err := u.getUserByEmail(ctx, db, email)
	if err != nil {
		return err
	}
	if user.IsActive {
		return ErrUserActive
	}

	if u.limiter != nil {
		allowed, _, err := u.limiter.Allow(ctx, email)
		if err != nil {
			return err
		}
		if !allowed {
			if metrics.VerifyCodeThrottledTotal != nil {
				metrics.VerifyCodeThrottledTotal.Inc()
			}
			return ErrCodeThrottled
		}
	}

	code, err := verifycode.Generate(6)
	if err != nil {
		return err
	}
	if err := u.codes.Set(ctx, email, code); err != nil {
		return err
	}
	if err := u.mailer.SendVerificationCode(email, code); err != nil {
		if u.logger != nil {
			u.logger.Warn("send verification email failed", slog.String("email", email), slog.String("error", err.Error()))
		}
		return err
	}

	if metrics.VerifyCodeSendsTotal != nil {
		metrics.VerifyCodeSendsTotal.Inc()
	}
	if u.logger != nil {
		u.logger.Info("verification code sent", slog.String("email", email))
	}
	return nil
}

// VerifyEmail 比对验证码并激活用户。
//
// 验证码严格逐字符比对；验证通过后立即作废，防止重放。
func (u *AuthUsecase) VerifyEmail(ctx context.Context, db *gorm.DB, email, code string) error {
	email = normalizeEmail(email)

	user, err := u.getUserByEmail(ctx, db, email)
	if err != nil {
		return err
	}
	if user.IsActive {
		return ErrUserActive
	}

	stored, err := u.codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return ErrInvalidCode
	}

	if _, err := u.users.UpdateBy(ctx, db, map[string]any{"is_active": true}, repository.Filters{"id": user.ID}); err != nil {
		return err
	}
	if err := u.codes.Delete(ctx, email); err != nil {
		if u.logger != nil {
			u.logger.Warn("invalidate verification code failed", slog.String("email", email), slog.String("error", err.Error()))
		}
	}

	if u.logger != nil {
		u.logger.Info("email verified", slog.String("email", email))
	}
	return nil
}

func (u *AuthUsecase) getUserByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	user, err := u.users.GetBy(ctx, db, repository.Filters{"email": email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (u *AuthUsecase) issueToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(now.Add(u.cfg.AccessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.cfg.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
