package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"answerhub/internal/config"
	"answerhub/internal/model"
	"answerhub/internal/pkg/verifycode"
	"answerhub/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeMailer struct {
	sent  []string
	codes []string
	err   error
}

func (m *fakeMailer) SendVerificationCode(toEmail, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, toEmail)
	m.codes = append(m.codes, code)
	return nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	return false, time.Minute, nil
}

func newAuthFixture(t *testing.T) (*AuthUsecase, *fakeMailer, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Fatalf("close redis: %v", err)
		}
	})

	cfg := &config.AuthConfig{
		JWTSecret:      "test_secret",
		AccessTokenTTL: time.Hour,
		VerifyCodeTTL:  10 * time.Minute,
	}
	mailer := &fakeMailer{}
	u := NewAuth(cfg, verifycode.NewStore(rdb, cfg.VerifyCodeTTL), mailer, nil, discardLogger())
	return u, mailer, s, rdb
}

func TestAuthUsecase_Register(t *testing.T) {
	u, _, _, _ := newAuthFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	user, err := u.Register(ctx, db, "Alice@Example.com", "password", "Alice", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.IsActive {
		t.Fatalf("expected new user to be inactive")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.HashedPassword == "password" || user.HashedPassword == "" {
		t.Fatalf("expected stored value to be a hash")
	}

	_, err = u.Register(ctx, db, "alice@example.com", "other", "", "")
	if !errors.Is(err, ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}

	users, err := repository.New[model.User]().GetAll(ctx, db, nil)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected duplicate register to create no row, got %d users", len(users))
	}
}

func TestAuthUsecase_Login(t *testing.T) {
	u, _, _, _ := newAuthFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	user, err := u.Register(ctx, db, "bob@example.com", "secret123", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// 未激活用户不能登录
	if _, err := u.Login(ctx, db, "bob@example.com", "secret123"); !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected ErrCredentials for inactive user, got %v", err)
	}

	if _, err := repository.New[model.User]().UpdateBy(ctx, db, map[string]any{"is_active": true}, repository.Filters{"id": user.ID}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if _, err := u.Login(ctx, db, "nobody@example.com", "secret123"); !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected ErrCredentials for unknown email, got %v", err)
	}
	if _, err := u.Login(ctx, db, "bob@example.com", "wrong"); !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected ErrCredentials for wrong password, got %v", err)
	}

	token, err := u.Login(ctx, db, "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := u.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Subject != "bob@example.com" {
		t.Fatalf("expected subject to be the email, got %q", claims.Subject)
	}

	refreshed, err := repository.New[model.User]().GetBy(ctx, db, repository.Filters{"id": user.ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if refreshed.LastLogin == nil {
		t.Fatalf("expected last_login to be set after login")
	}
}

func TestAuthUsecase_VerifyToken_Invalid(t *testing.T) {
	u, _, _, _ := newAuthFixture(t)

	if _, err := u.VerifyToken("not-a-token"); !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected ErrCredentials, got %v", err)
	}
}

func TestAuthUsecase_GetCurrent(t *testing.T) {
	u, _, _, _ := newAuthFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	user, err := u.Register(ctx, db, "carol@example.com", "secret123", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := repository.New[model.User]().UpdateBy(ctx, db, map[string]any{"is_active": true}, repository.Filters{"id": user.ID}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	token, err := u.Login(ctx, db, "carol@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	current, err := u.GetCurrent(ctx, db, token)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current.Email != "carol@example.com" {
		t.Fatalf("unexpected current user %q", current.Email)
	}

	// 用户被禁用后令牌失效
	if _, err := repository.New[model.User]().UpdateBy(ctx, db, map[string]any{"is_active": false}, repository.Filters{"id": user.ID}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := u.GetCurrent(ctx, db, token); !errors.Is(err, ErrCredentials) {
		t.Fatalf("expected ErrCredentials for inactive user, got %v", err)
	}
}

func TestAuthUsecase_SendAndVerifyEmailCode(t *testing.T) {
	u, mailer, _, _ := newAuthFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	if err := u.SendEmailCode(ctx, db, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	user, err := u.Register(ctx, db, "dave@example.com", "secret123", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := u.SendEmailCode(ctx, db, "dave@example.com"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	if len(mailer.codes) != 1 || len(mailer.codes[0]) != 6 {
		t.Fatalf("expected a 6-digit code to be mailed, got %v", mailer.codes)
	}
	code := mailer.codes[0]

	// 错误的验证码不得激活用户
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if err := u.VerifyEmail(ctx, db, "dave@example.com", wrong); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	unverified, err := repository.New[model.User]().GetBy(ctx, db, repository.Filters{"id": user.ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if unverified.IsActive {
		t.Fatalf("expected user to stay inactive after wrong code")
	}

	if err := u.VerifyEmail(ctx, db, "dave@example.com", code); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	activated, err := repository.New[model.User]().GetBy(ctx, db, repository.Filters{"id": user.ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !activated.IsActive {
		t.Fatalf("expected user to be active after verification")
	}

	// 已激活的用户不能再次发送/验证
	if err := u.SendEmailCode(ctx, db, "dave@example.com"); !errors.Is(err, ErrUserActive) {
		t.Fatalf("expected ErrUserActive, got %v", err)
	}
	if err := u.VerifyEmail(ctx, db, "dave@example.com", code); !errors.Is(err, ErrUserActive) {
		t.Fatalf("expected ErrUserActive, got %v", err)
	}
}

func TestAuthUsecase_VerifyEmail_ExpiredCode(t *testing.T) {
	u, mailer, mr, _ := newAuthFixture(t)
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := u.Register(ctx, db, "erin@example.com", "secret123", "", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := u.SendEmailCode(ctx, db, "erin@example.com"); err != nil {
		t.Fatalf("send code: %v", err)
	}

	mr.FastForward(11 * time.Minute)

	if err := u.VerifyEmail(ctx, db, "erin@example.com", mailer.codes[0]); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode after TTL expiry, got %v", err)
	}
}

func TestAuthUsecase_SendEmailCode_Throttled(t *testing.T) {
	u, mailer, _, _ := newAuthFixture(t)
	u.limiter = denyLimiter{}
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := u.Register(ctx, db, "frank@example.com", "secret123", "", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := u.SendEmailCode(ctx, db, "frank@example.com"); !errors.Is(err, ErrCodeThrottled) {
		t.Fatalf("expected ErrCodeThrottled, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail when throttled")
	}
}
