// Package qna は日替わり質問と回答のビジネスロジックを提供する。
//
// 質問は1日1問、午前5時に活性化される。「今日」は午前5時境界の論理日で判定し、
// 深夜0時〜5時のアクセスでは前日の質問が「今日の質問」として扱われる。
// 当日の質問の詳細（家族の回答）は、自分が回答するまで閲覧できない。
package qna

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
	"github.com/hitoshi/famnote/internal/security"
)

// TodayQuestion は「今日の質問」の取得結果。
type TodayQuestion struct {
	Question *model.Question
	Answered bool // 取得したユーザーが回答済みかどうか
}

// MemberAnswer はグループ構成員とその回答の組。未回答ならAnswerはnil。
type MemberAnswer struct {
	UserID      string
	DisplayName string
	Answer      *model.Answer
}

// QuestionDetail は質問詳細の取得結果。
// 構成員全員分のエントリを含み、未回答者はAnswer=nilのプレースホルダーになる。
type QuestionDetail struct {
	Question *model.Question
	State    model.QuestionState
	Members  []MemberAnswer
}

// Service は日替わり質問に関するビジネスロジックを提供する。
type Service struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	userRepo     repository.UserRepository
	sanitizer    security.ContentSanitizerService
	clock        clock.Clock
}

// NewService はServiceを生成する。
func NewService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	sanitizer security.ContentSanitizerService,
	clk clock.Clock,
) *Service {
	return &Service{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
		sanitizer:    sanitizer,
		clock:        clk,
	}
}

// GetTodayQuestion は現在の論理日に活性化されている質問を返す。
// まだ活性化されていない場合はエラーを返す。
func (s *Service) GetTodayQuestion(ctx context.Context, userID string) (*TodayQuestion, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}

	question, err := s.activeQuestion(ctx)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.FindByQuestionAndUser(ctx, question.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}

	return &TodayQuestion{
		Question: question,
		Answered: answer != nil,
	}, nil
}

// GetMonthlyQuestions は指定年月に活性化された質問一覧を活性化日付の昇順で返す。
func (s *Service) GetMonthlyQuestions(ctx context.Context, userID string, year int, month time.Month) ([]*model.Question, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}
	if year < 2000 || year > 2100 {
		return nil, model.NewInvalidRequestError("年の指定が不正です")
	}
	if month < time.January || month > time.December {
		return nil, model.NewInvalidRequestError("月の指定が不正です")
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, s.clock.Location())
	end := start.AddDate(0, 1, -1)

	questions, err := s.questionRepo.ListByActivationDateBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// GetQuestionDetail は質問と家族全員の回答状況を返す。
// 当日の質問は自分が回答するまで閲覧できない（回答必須ゲート）。
// 過去の質問は回答の有無にかかわらず閲覧できる。
func (s *Service) GetQuestionDetail(ctx context.Context, userID string, questionID int64) (*QuestionDetail, error) {
	user, err := s.requireApprovedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	if question == nil {
		return nil, model.NewQuestionNotFoundError(questionID)
	}

	logicalDate := clock.LogicalDate(s.clock)
	state := question.StateOn(logicalDate)

	// 未活性化の質問は存在しないものとして扱う
	if state == model.QuestionPending {
		return nil, model.NewQuestionNotFoundError(questionID)
	}

	// 当日の質問は自分の回答が先
	if state == model.QuestionActive {
		own, err := s.answerRepo.FindByQuestionAndUser(ctx, question.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to find own answer: %w", err)
		}
		if own == nil {
			return nil, model.NewAnswerRequiredError()
		}
	}

	members, err := s.userRepo.ListByGroupID(ctx, *user.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	answers, err := s.answerRepo.ListByQuestionID(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	answerByUser := make(map[string]*model.Answer, len(answers))
	for _, a := range answers {
		answerByUser[a.UserID] = a
	}

	memberAnswers := make([]MemberAnswer, 0, len(members))
	for _, m := range members {
		memberAnswers = append(memberAnswers, MemberAnswer{
			UserID:      m.ID,
			DisplayName: m.DisplayName(),
			Answer:      answerByUser[m.ID],
		})
	}

	return &QuestionDetail{
		Question: question,
		State:    state,
		Members:  memberAnswers,
	}, nil
}

// SubmitAnswer は当日の質問に回答を登録する。
// 対象が当日の活性化質問でない場合、既に回答済みの場合はエラーを返す。
func (s *Service) SubmitAnswer(ctx context.Context, userID string, questionID int64, text string) (*model.Answer, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}

	text = s.sanitizer.Sanitize(text)
	if strings.TrimSpace(text) == "" {
		return nil, model.NewInvalidRequestError("回答本文は必須です")
	}

	question, err := s.requireActiveQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.answerRepo.FindByQuestionAndUser(ctx, question.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}
	if existing != nil {
		return nil, model.NewAnswerExistsError()
	}

	answer := &model.Answer{
		QuestionID: question.ID,
		UserID:     userID,
		Text:       text,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	slog.Info("answer submitted",
		slog.Int64("question_id", question.ID),
		slog.String("user_id", userID),
	)
	return answer, nil
}

// EditAnswer は当日の質問に対する自分の回答を編集する。
// 回答の作成論理日が現在の論理日と異なる場合は編集できない。
func (s *Service) EditAnswer(ctx context.Context, userID string, questionID int64, text string) (*model.Answer, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return nil, err
	}

	text = s.sanitizer.Sanitize(text)
	if strings.TrimSpace(text) == "" {
		return nil, model.NewInvalidRequestError("回答本文は必須です")
	}

	answer, err := s.editableAnswer(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.answerRepo.UpdateText(ctx, answer.ID, text, now); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}

	answer.Text = text
	answer.UpdatedAt = &now

	slog.Info("answer edited",
		slog.Int64("question_id", questionID),
		slog.String("user_id", userID),
	)
	return answer, nil
}

// DeleteAnswer は当日の質問に対する自分の回答を削除する。
// 編集と同じ条件でのみ削除できる。削除した質問IDを返す。
func (s *Service) DeleteAnswer(ctx context.Context, userID string, questionID int64) (int64, error) {
	if _, err := s.requireApprovedUser(ctx, userID); err != nil {
		return 0, err
	}

	answer, err := s.editableAnswer(ctx, userID, questionID)
	if err != nil {
		return 0, err
	}

	if err := s.answerRepo.DeleteByQuestionAndUser(ctx, answer.QuestionID, userID); err != nil {
		return 0, fmt.Errorf("failed to delete answer: %w", err)
	}

	slog.Info("answer deleted",
		slog.Int64("question_id", questionID),
		slog.String("user_id", userID),
	)
	return questionID, nil
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

// activeQuestion は現在の論理日に活性化されている質問を返す。
func (s *Service) activeQuestion(ctx context.Context) (*model.Question, error) {
	logicalDate := clock.LogicalDate(s.clock)

	question, err := s.questionRepo.FindByActivationDate(ctx, logicalDate)
	if err != nil {
		return nil, fmt.Errorf("failed to find today's question: %w", err)
	}
	if question == nil {
		return nil, model.NewQuestionNotPreparedError()
	}
	return question, nil
}

// requireActiveQuestion は指定IDの質問が当日の活性化質問であることを要求する。
func (s *Service) requireActiveQuestion(ctx context.Context, questionID int64) (*model.Question, error) {
	active, err := s.activeQuestion(ctx)
	if err != nil {
		return nil, err
	}
	if active.ID != questionID {
		return nil, model.NewNotActiveQuestionError()
	}
	return active, nil
}

// editableAnswer は編集・削除可能な自分の回答を返す。
// 条件: 対象が当日の活性化質問で、回答が存在し、
// 回答の作成論理日が現在の論理日と一致すること。
func (s *Service) editableAnswer(ctx context.Context, userID string, questionID int64) (*model.Answer, error) {
	question, err := s.requireActiveQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.FindByQuestionAndUser(ctx, question.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}
	if answer == nil {
		return nil, model.NewAnswerNotFoundError()
	}
	if !model.IsOwner(answer, userID) {
		return nil, model.NewNotOwnerError("回答")
	}

	createdDay := clock.LogicalDateOf(answer.CreatedAt.In(s.clock.Location()))
	if !model.SameDate(createdDay, clock.LogicalDate(s.clock)) {
		return nil, model.NewAnswerWindowClosedError()
	}

	return answer, nil
}
