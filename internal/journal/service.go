// Package journal は日記投稿・コメント・いいねのビジネスロジックを提供する。
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
	"github.com/hitoshi/famnote/internal/security"
)

// DailyDetail は日記詳細の取得結果。
type DailyDetail struct {
	Daily    *model.Daily
	Comments []*model.Comment
	Liked    bool // 取得したユーザーがいいね済みかどうか
}

// Service は日記に関するビジネスロジックを提供する。
type Service struct {
	dailyRepo   repository.DailyRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	userRepo    repository.UserRepository
	sanitizer   security.ContentSanitizerService
	clock       clock.Clock
}

// NewService はServiceを生成する。
func NewService(
	dailyRepo repository.DailyRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	sanitizer security.ContentSanitizerService,
	clk clock.Clock,
) *Service {
	return &Service{
		dailyRepo:   dailyRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
		sanitizer:   sanitizer,
		clock:       clk,
	}
}

// CreateDaily は日記を作成する。本文はサニタイズされる。
func (s *Service) CreateDaily(ctx context.Context, userID, content string) (*model.Daily, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	content = s.sanitizer.Sanitize(content)
	if content == "" {
		return nil, model.NewInvalidRequestError("本文は必須です")
	}

	now := s.clock.Now()
	daily := &model.Daily{
		ID:        uuid.New().String(),
		UserID:    userID,
		GroupID:   *user.GroupID,
		Date:      clock.Today(s.clock),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.dailyRepo.Create(ctx, daily); err != nil {
		return nil, fmt.Errorf("failed to create daily: %w", err)
	}

	slog.Info("daily created",
		slog.String("daily_id", daily.ID),
		slog.String("user_id", userID),
	)
	return daily, nil
}

// GetWeeklyDailies は今週（月曜〜日曜）のグループの日記一覧を
// いいね数・コメント数付きで返す。
func (s *Service) GetWeeklyDailies(ctx context.Context, userID string) ([]model.DailyWithCounts, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	monday := weekStart(clock.Today(s.clock))
	sunday := monday.AddDate(0, 0, 6)

	dailies, err := s.dailyRepo.ListByGroupAndDateRange(ctx, *user.GroupID, monday, sunday)
	if err != nil {
		return nil, fmt.Errorf("failed to list dailies: %w", err)
	}
	return dailies, nil
}

// GetDailyDetail は日記の詳細（コメント一覧・いいね状態）を返す。
// 自グループの日記のみ閲覧できる。
func (s *Service) GetDailyDetail(ctx context.Context, userID, dailyID string) (*DailyDetail, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	daily, err := s.findGroupDaily(ctx, user, dailyID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByDailyID(ctx, daily.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	like, err := s.likeRepo.FindByDailyAndUser(ctx, daily.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find like: %w", err)
	}

	return &DailyDetail{
		Daily:    daily,
		Comments: comments,
		Liked:    like != nil,
	}, nil
}

// UpdateDaily は自分の日記の本文を更新する。
func (s *Service) UpdateDaily(ctx context.Context, userID, dailyID, content string) (*model.Daily, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	content = s.sanitizer.Sanitize(content)
	if content == "" {
		return nil, model.NewInvalidRequestError("本文は必須です")
	}

	daily, err := s.findGroupDaily(ctx, user, dailyID)
	if err != nil {
		return nil, err
	}
	if !model.IsOwner(daily, userID) {
		return nil, model.NewNotOwnerError("日記")
	}

	if err := s.dailyRepo.UpdateContent(ctx, daily.ID, content); err != nil {
		return nil, fmt.Errorf("failed to update daily: %w", err)
	}
	daily.Content = content
	return daily, nil
}

// DeleteDaily は自分の日記を削除する。コメント・いいねも連動して削除される。
func (s *Service) DeleteDaily(ctx context.Context, userID, dailyID string) error {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return err
	}

	daily, err := s.findGroupDaily(ctx, user, dailyID)
	if err != nil {
		return err
	}
	if !model.IsOwner(daily, userID) {
		return model.NewNotOwnerError("日記")
	}

	if err := s.dailyRepo.DeleteByID(ctx, daily.ID); err != nil {
		return fmt.Errorf("failed to delete daily: %w", err)
	}

	slog.Info("daily deleted",
		slog.String("daily_id", dailyID),
		slog.String("user_id", userID),
	)
	return nil
}

// AddComment は日記にコメントを追加する。本文はサニタイズされる。
func (s *Service) AddComment(ctx context.Context, userID, dailyID, content string) (*model.Comment, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	content = s.sanitizer.Sanitize(content)
	if content == "" {
		return nil, model.NewInvalidRequestError("本文は必須です")
	}

	daily, err := s.findGroupDaily(ctx, user, dailyID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	comment := &model.Comment{
		ID:        uuid.New().String(),
		DailyID:   daily.ID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// UpdateComment は自分のコメントの本文を更新する。
// コメントは指定された日記に属していなければならない。
func (s *Service) UpdateComment(ctx context.Context, userID, dailyID, commentID, content string) (*model.Comment, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}

	content = s.sanitizer.Sanitize(content)
	if content == "" {
		return nil, model.NewInvalidRequestError("本文は必須です")
	}

	comment, err := s.findOwnComment(ctx, userID, dailyID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateContent(ctx, comment.ID, content); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	comment.Content = content
	return comment, nil
}

// DeleteComment は自分のコメントを削除する。
func (s *Service) DeleteComment(ctx context.Context, userID, dailyID, commentID string) error {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return err
	}

	comment, err := s.findOwnComment(ctx, userID, dailyID, commentID)
	if err != nil {
		return err
	}

	if err := s.commentRepo.DeleteByID(ctx, comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ToggleLike はいいねの登録と取り消しを切り替える。
// 戻り値は操作後のいいね状態。
func (s *Service) ToggleLike(ctx context.Context, userID, dailyID string) (bool, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return false, err
	}

	daily, err := s.findGroupDaily(ctx, user, dailyID)
	if err != nil {
		return false, err
	}

	existing, err := s.likeRepo.FindByDailyAndUser(ctx, daily.ID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to find like: %w", err)
	}

	if existing != nil {
		if err := s.likeRepo.DeleteByID(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("failed to delete like: %w", err)
		}
		return false, nil
	}

	like := &model.DailyLike{
		ID:        uuid.New().String(),
		DailyID:   daily.ID,
		UserID:    userID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}
	return true, nil
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

// findGroupDaily は自グループの日記を取得する。
// 他グループの日記は存在の有無を区別せず同じエラーを返す。
func (s *Service) findGroupDaily(ctx context.Context, user *model.User, dailyID string) (*model.Daily, error) {
	daily, err := s.dailyRepo.FindByID(ctx, dailyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find daily: %w", err)
	}
	if daily == nil || daily.GroupID != *user.GroupID {
		return nil, model.NewDailyNotFoundError()
	}
	return daily, nil
}

// findOwnComment は指定日記に属する自分のコメントを取得する。
func (s *Service) findOwnComment(ctx context.Context, userID, dailyID, commentID string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	if comment == nil {
		return nil, model.NewCommentNotFoundError()
	}
	if comment.DailyID != dailyID {
		return nil, model.NewCommentNotInDailyError()
	}
	if !model.IsOwner(comment, userID) {
		return nil, model.NewNotOwnerError("コメント")
	}
	return comment, nil
}

// weekStart は指定日を含む週の月曜日を返す。
func weekStart(day time.Time) time.Time {
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // 日曜は前週扱い
	}
	return day.AddDate(0, 0, -offset)
}
