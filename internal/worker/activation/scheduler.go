// Package activation は日替わり質問の活性化ジョブを提供する。
// 毎日午前5時（アプリのタイムゾーン）にプールから次の質問を1件取り出し、
// その日の質問として活性化する。
package activation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/repository"
)

// activationSpec は活性化ジョブのcron式。論理日の境界と同じ午前5時に実行する。
const activationSpec = "0 5 * * *"

// Scheduler は質問活性化のスケジューリングを行う。
// 同一日の再実行は何もしない冪等なジョブとして設計されており、
// 万一複数プロセスが同時に走っても、activation_dateの部分ユニーク制約が
// 二重活性化を防ぐ。
type Scheduler struct {
	questionRepo repository.QuestionRepository
	clock        clock.Clock
	logger       *slog.Logger
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
func NewScheduler(
	questionRepo repository.QuestionRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		questionRepo: questionRepo,
		clock:        clk,
		logger:       logger,
	}
}

// Start は毎日午前5時に活性化ジョブを実行するスケジューラを起動する。
// 起動直後にも1回実行し、5時以降の再起動でその日の質問が欠けないようにする。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.clock.Location()))

	_, err := c.AddFunc(activationSpec, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("質問活性化ジョブの実行に失敗しました",
				slog.String("error", err.Error()),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register activation job: %w", err)
	}

	s.logger.Info("質問活性化スケジューラを開始しました",
		slog.String("spec", activationSpec),
		slog.String("timezone", s.clock.Location().String()),
	)

	// 起動直後に1回実行
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("質問活性化ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	s.logger.Info("質問活性化スケジューラを停止しました")
	return nil
}

// RunOnce は活性化ジョブを1回実行する。
// 当日分が既に活性化済みの場合、およびプールが空の場合は何もしない。
// 同一日に何度呼ばれても結果は変わらない。
func (s *Scheduler) RunOnce(ctx context.Context) error {
	logicalDate := clock.LogicalDate(s.clock)

	// 既に当日分が活性化済みなら何もしない（冪等）
	existing, err := s.questionRepo.FindByActivationDate(ctx, logicalDate)
	if err != nil {
		return fmt.Errorf("failed to check today's question: %w", err)
	}
	if existing != nil {
		s.logger.Info("本日の質問は活性化済みです",
			slog.Int64("question_id", existing.ID),
			slog.Time("activation_date", logicalDate),
		)
		return nil
	}

	// プールから未活性化の質問をID昇順で1件取得
	next, err := s.questionRepo.FindFirstUnactivated(ctx)
	if err != nil {
		return fmt.Errorf("failed to find next question: %w", err)
	}
	if next == nil {
		// プールが空の場合は静かに何もしない
		s.logger.Warn("活性化できる質問がありません",
			slog.Time("activation_date", logicalDate),
		)
		return nil
	}

	if err := s.questionRepo.Activate(ctx, next.ID, logicalDate); err != nil {
		return fmt.Errorf("failed to activate question: %w", err)
	}

	s.logger.Info("本日の質問を活性化しました",
		slog.Int64("question_id", next.ID),
		slog.Time("activation_date", logicalDate),
	)
	return nil
}
