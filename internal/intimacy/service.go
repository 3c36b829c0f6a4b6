// Package intimacy は家族親密度テストのビジネスロジックを提供する。
//
// テストは10問の5段階評価で、スコアは回答合計の2倍（最大100点）。
// 何度でも受験でき、最新の結果が現在のスコアとして扱われる。
package intimacy

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
)

// MemberScore は構成員とその最新スコアの組。
type MemberScore struct {
	UserID      string
	DisplayName string
	Score       int  // 未受験なら0
	Taken       bool // 受験済みかどうか
}

// FamilyAverage はグループの親密度集計結果。
type FamilyAverage struct {
	Average float64
	Members []MemberScore
}

// Service は親密度テストに関するビジネスロジックを提供する。
type Service struct {
	intimacyRepo repository.IntimacyRepository
	userRepo     repository.UserRepository
	clock        clock.Clock
}

// NewService はServiceを生成する。
func NewService(
	intimacyRepo repository.IntimacyRepository,
	userRepo repository.UserRepository,
	clk clock.Clock,
) *Service {
	return &Service{
		intimacyRepo: intimacyRepo,
		userRepo:     userRepo,
		clock:        clk,
	}
}

// SubmitTest はテストの回答を受け付け、スコアを算出して保存する。
// 回答は10問ちょうどで、各回答は1〜5でなければならない。
func (s *Service) SubmitTest(ctx context.Context, userID string, answers []int) (*model.IntimacyScore, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}

	if len(answers) != model.IntimacyAnswerCount {
		return nil, model.NewInvalidAnswerCountError(len(answers))
	}

	total := 0
	var fixed [model.IntimacyAnswerCount]int
	for i, a := range answers {
		if a < 1 || a > 5 {
			return nil, model.NewInvalidRequestError(fmt.Sprintf("回答は1〜5で指定してください (問%d)", i+1))
		}
		fixed[i] = a
		total += a
	}

	now := s.clock.Now()
	score := &model.IntimacyScore{
		ID:        uuid.New().String(),
		UserID:    userID,
		Score:     total * 2,
		TestDate:  clock.Today(s.clock),
		CreatedAt: now,
	}
	if err := s.intimacyRepo.CreateScore(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to create intimacy score: %w", err)
	}

	resp := &model.IntimacyResponse{
		ID:        uuid.New().String(),
		ScoreID:   score.ID,
		Answers:   fixed,
		CreatedAt: now,
	}
	if err := s.intimacyRepo.CreateResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("failed to create intimacy response: %w", err)
	}
	return score, nil
}

// GetMyLatestScore は自分の最新スコアを返す。未受験の場合はエラーを返す。
func (s *Service) GetMyLatestScore(ctx context.Context, userID string) (*model.IntimacyScore, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}

	score, err := s.intimacyRepo.FindLatestByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find intimacy score: %w", err)
	}
	if score == nil {
		return nil, model.NewIntimacyRecordNotFoundError()
	}
	return score, nil
}

// GetFamilyAverage はグループ構成員の最新スコアと平均を返す。
// 未受験の構成員はスコア0として平均に含める。
func (s *Service) GetFamilyAverage(ctx context.Context, userID string) (*FamilyAverage, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.userRepo.ListByGroupID(ctx, *user.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	result := &FamilyAverage{Members: make([]MemberScore, 0, len(members))}
	total := 0
	for _, m := range members {
		score, err := s.intimacyRepo.FindLatestByUserID(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find intimacy score: %w", err)
		}

		ms := MemberScore{UserID: m.ID, DisplayName: m.DisplayName()}
		if score != nil {
			ms.Score = score.Score
			ms.Taken = true
		}
		total += ms.Score
		result.Members = append(result.Members, ms)
	}

	if len(result.Members) > 0 {
		result.Average = float64(total) / float64(len(result.Members))
	}
	return result, nil
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
