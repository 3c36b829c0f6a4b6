// Package emotion は家族間で共有する感情状態のビジネスロジックを提供する。
// 感情は1ユーザーにつき1件で、登録後は更新のみ可能。
package emotion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
)

// MemberEmotion は構成員とその感情の組。
type MemberEmotion struct {
	UserID      string
	DisplayName string
	Emotion     *model.Emotion // 未登録ならnil
}

// Service は感情に関するビジネスロジックを提供する。
type Service struct {
	emotionRepo repository.EmotionRepository
	userRepo    repository.UserRepository
	clock       clock.Clock
}

// NewService はServiceを生成する。
func NewService(
	emotionRepo repository.EmotionRepository,
	userRepo repository.UserRepository,
	clk clock.Clock,
) *Service {
	return &Service{
		emotionRepo: emotionRepo,
		userRepo:    userRepo,
		clock:       clk,
	}
}

// CreateEmotion は自分の感情を登録する。既に登録済みの場合はエラーを返す。
func (s *Service) CreateEmotion(ctx context.Context, userID string, emotionType model.EmotionType) (*model.Emotion, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.ValidEmotionType(emotionType) {
		return nil, model.NewInvalidRequestError("未知の感情種別です")
	}

	existing, err := s.emotionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find emotion: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmotionExistsError()
	}

	now := s.clock.Now()
	emotion := &model.Emotion{
		ID:        uuid.New().String(),
		UserID:    userID,
		GroupID:   *user.GroupID,
		Type:      emotionType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.emotionRepo.Create(ctx, emotion); err != nil {
		return nil, fmt.Errorf("failed to create emotion: %w", err)
	}
	return emotion, nil
}

// UpdateMyEmotion は自分の感情を更新する。
// nicknameが空でない場合は、あわせて自分のニックネームも変更する。
func (s *Service) UpdateMyEmotion(ctx context.Context, userID string, emotionType model.EmotionType, nickname string) (*model.Emotion, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}
	if !model.ValidEmotionType(emotionType) {
		return nil, model.NewInvalidRequestError("未知の感情種別です")
	}

	emotion, err := s.emotionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find emotion: %w", err)
	}
	if emotion == nil {
		return nil, model.NewEmotionNotFoundError()
	}

	if err := s.emotionRepo.UpdateType(ctx, emotion.ID, emotionType); err != nil {
		return nil, fmt.Errorf("failed to update emotion: %w", err)
	}
	emotion.Type = emotionType

	if nickname = strings.TrimSpace(nickname); nickname != "" {
		if err := s.userRepo.UpdateNickname(ctx, userID, nickname); err != nil {
			return nil, fmt.Errorf("failed to update nickname: %w", err)
		}
	}
	return emotion, nil
}

// GetMemberEmotion は同じグループの構成員の感情を取得する。
func (s *Service) GetMemberEmotion(ctx context.Context, userID, targetUserID string) (*model.Emotion, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireSameGroupMember(ctx, user, targetUserID); err != nil {
		return nil, err
	}

	emotion, err := s.emotionRepo.FindByUserID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find emotion: %w", err)
	}
	if emotion == nil {
		return nil, model.NewEmotionNotFoundError()
	}
	return emotion, nil
}

// ListGroupEmotions はグループ構成員全員の感情状況を返す。
// 未登録の構成員はEmotion=nilのプレースホルダーになる。
func (s *Service) ListGroupEmotions(ctx context.Context, userID string) ([]MemberEmotion, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.userRepo.ListByGroupID(ctx, *user.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	emotions, err := s.emotionRepo.ListByGroupID(ctx, *user.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emotions: %w", err)
	}
	emotionByUser := make(map[string]*model.Emotion, len(emotions))
	for _, e := range emotions {
		emotionByUser[e.UserID] = e
	}

	result := make([]MemberEmotion, 0, len(members))
	for _, m := range members {
		result = append(result, MemberEmotion{
			UserID:      m.ID,
			DisplayName: m.DisplayName(),
			Emotion:     emotionByUser[m.ID],
		})
	}
	return result, nil
}

// UpdateMemberNickname は同じグループの構成員のニックネームを変更する。
// 家族間での呼び名を管理する機能で、本人以外も変更できる。
func (s *Service) UpdateMemberNickname(ctx context.Context, userID, targetUserID, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return model.NewInvalidRequestError("ニックネームは必須です")
	}

	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return err
	}

	target, err := s.requireSameGroupMember(ctx, user, targetUserID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateNickname(ctx, target.ID, nickname); err != nil {
		return fmt.Errorf("failed to update nickname: %w", err)
	}
	return nil
}

// requireApprovedUser は承認済み（グループ所属）ユーザーであることを要求する。
func (s *Service) requireApprovedUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	if !user.Approved() {
		return nil, model.NewGroupRequiredError()
	}
	return user, nil
}

// requireSameGroupMember は対象ユーザーが同じグループの構成員であることを要求する。
func (s *Service) requireSameGroupMember(ctx context.Context, user *model.User, targetUserID string) (*model.User, error) {
	target, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find target user: %w", err)
	}
	if target == nil {
		return nil, model.NewUserNotFoundError()
	}
	if !target.Approved() || *target.GroupID != *user.GroupID {
		return nil, model.NewNotSameGroupError()
	}
	return target, nil
}
