package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
)

// TokenPair はアクセストークンとリフレッシュトークンの組。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // アクセストークンの有効期限
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	issuer    *TokenIssuer
	clock     clock.Clock
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	issuer *TokenIssuer,
	clk clock.Clock,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		issuer:    issuer,
		clock:     clk,
		config:    config,
	}
}

// Signup は新規ユーザーを登録し、トークンペアを発行する。
// メールアドレスが登録済みの場合はエラーを返す。
func (s *Service) Signup(ctx context.Context, email, password, name string) (*model.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, model.NewInvalidRequestError("メールアドレスの形式が不正です")
	}
	if len(password) < 8 {
		return nil, nil, model.NewInvalidRequestError("パスワードは8文字以上必要です")
	}
	if strings.TrimSpace(name) == "" {
		return nil, nil, model.NewInvalidRequestError("名前は必須です")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, nil, model.NewEmailTakenError(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("new user signed up", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Login はメールアドレスとパスワードで認証し、トークンペアを発行する。
// ユーザー不在とパスワード不一致は同じエラーとし、登録状況を漏らさない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewLoginFailedError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, model.NewLoginFailedError()
	}

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Refresh はリフレッシュトークンを検証し、新しいトークンペアに差し替える。
// 使用されたトークンは即座に失効する（ローテーション方式）。
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokenRepo.FindByTokenHash(ctx, HashRefreshToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	now := s.clock.Now()
	if stored == nil || !stored.Valid(now) {
		return nil, model.NewInvalidRefreshTokenError()
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID, now); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	slog.Info("refresh token rotated", slog.String("user_id", stored.UserID))
	return pair, nil
}

// Logout はリフレッシュトークンを失効させる。
// トークンが見つからない場合もエラーとせず、ログアウト済みとして扱う。
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.tokenRepo.FindByTokenHash(ctx, HashRefreshToken(refreshToken))
	if err != nil {
		return fmt.Errorf("failed to find refresh token: %w", err)
	}
	if stored == nil {
		return nil
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	slog.Info("user logged out", slog.String("user_id", stored.UserID))
	return nil
}

// VerifyAccessToken はアクセストークンを検証し、ユーザーIDを返す。
func (s *Service) VerifyAccessToken(tokenString string) (string, error) {
	return s.issuer.Parse(tokenString)
}

// issueTokenPair はアクセストークンとリフレッシュトークンを発行し、
// リフレッシュトークンのハッシュを永続化する。
func (s *Service) issueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := s.issuer.Issue(userID)
	if err != nil {
		return nil, err
	}

	refresh, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := &model.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: HashRefreshToken(refresh),
		ExpiresAt: now.Add(s.config.RefreshTokenTTL),
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.config.AccessTokenTTL),
	}, nil
}
