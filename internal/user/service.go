// Package user はユーザープロフィールに関するビジネスロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
)

// Service はユーザーに関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// GetMe は自分のプロフィールを取得する。
func (s *Service) GetMe(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// IsEmailAvailable はメールアドレスが未登録かどうかを返す。
// 新規登録フォームの事前チェックに使用する。
func (s *Service) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return false, model.NewInvalidRequestError("メールアドレスは必須です")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return !exists, nil
}

// UpdateNickname は自分のニックネームを更新する。
func (s *Service) UpdateNickname(ctx context.Context, userID, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return model.NewInvalidRequestError("ニックネームは必須です")
	}

	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateNickname(ctx, user.ID, nickname); err != nil {
		return fmt.Errorf("failed to update nickname: %w", err)
	}
	return nil
}

// Withdraw は退会処理を行う。
// ユーザーに紐づくトークン・回答・投稿等はCASCADE削除される。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.DeleteByID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user withdrawn", slog.String("user_id", userID))
	return nil
}
