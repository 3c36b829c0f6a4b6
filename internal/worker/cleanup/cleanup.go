// Package cleanup はリフレッシュトークンの自動削除ジョブを提供する。
// 期限切れ・失効済みのトークンを日次バッチで削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/repository"
)

// defaultInterval はジョブの既定実行間隔。
const defaultInterval = 24 * time.Hour

// TokenPurgeJob は期限切れリフレッシュトークンの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type TokenPurgeJob struct {
	tokenRepo repository.RefreshTokenRepository
	clock     clock.Clock
	logger    *slog.Logger
}

// NewTokenPurgeJob は新しいTokenPurgeJobを生成する。
func NewTokenPurgeJob(
	tokenRepo repository.RefreshTokenRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *TokenPurgeJob {
	return &TokenPurgeJob{
		tokenRepo: tokenRepo,
		clock:     clk,
		logger:    logger,
	}
}

// Start は指定間隔でジョブを実行するループを起動する。
// intervalが0以下の場合は24時間間隔を使用する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *TokenPurgeJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("トークン削除ジョブを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := j.Run(ctx); err != nil {
		j.logger.Error("トークン削除ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("トークン削除ジョブを停止しました")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("トークン削除ジョブの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Run は期限切れ・失効済みのリフレッシュトークンを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *TokenPurgeJob) Run(ctx context.Context) error {
	start := time.Now()

	deleted, err := j.tokenRepo.DeleteExpiredBefore(ctx, j.clock.Now())
	if err != nil {
		return fmt.Errorf("トークン削除の実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("トークン削除ジョブが完了しました",
		slog.Int64("deleted_count", deleted),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
