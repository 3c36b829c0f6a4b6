package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/famnote/internal/model"
)

// PostgresIntimacyRepo はPostgreSQLを使用した親密度テストリポジトリ。
type PostgresIntimacyRepo struct {
	db *sql.DB
}

// NewPostgresIntimacyRepo はPostgresIntimacyRepoを生成する。
func NewPostgresIntimacyRepo(db *sql.DB) *PostgresIntimacyRepo {
	return &PostgresIntimacyRepo{db: db}
}

// CreateScore はスコアを作成する。
func (r *PostgresIntimacyRepo) CreateScore(ctx context.Context, score *model.IntimacyScore) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO intimacy_scores (id, user_id, score, test_date, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		score.ID, score.UserID, score.Score,
		score.TestDate.Format(dateLayout), score.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("親密度スコアの作成に失敗しました: %w", err)
	}
	return nil
}

// CreateResponse は個別回答を作成する。
func (r *PostgresIntimacyRepo) CreateResponse(ctx context.Context, resp *model.IntimacyResponse) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO intimacy_responses
		     (id, score_id,
		      answer_1, answer_2, answer_3, answer_4, answer_5,
		      answer_6, answer_7, answer_8, answer_9, answer_10,
		      created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		resp.ID, resp.ScoreID,
		resp.Answers[0], resp.Answers[1], resp.Answers[2], resp.Answers[3], resp.Answers[4],
		resp.Answers[5], resp.Answers[6], resp.Answers[7], resp.Answers[8], resp.Answers[9],
		resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("親密度回答の作成に失敗しました: %w", err)
	}
	return nil
}

// FindLatestByUserID はユーザーの最新スコアを取得する。
// test_date降順、同日はcreated_at降順で最初の1件。見つからない場合はnilを返す。
func (r *PostgresIntimacyRepo) FindLatestByUserID(ctx context.Context, userID string) (*model.IntimacyScore, error) {
	score := &model.IntimacyScore{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, score, test_date, created_at
		 FROM intimacy_scores
		 WHERE user_id = $1
		 ORDER BY test_date DESC, created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(
		&score.ID, &score.UserID, &score.Score,
		&score.TestDate, &score.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("親密度スコアの取得に失敗しました: %w", err)
	}
	return score, nil
}

// compile-time interface check
var _ IntimacyRepository = (*PostgresIntimacyRepo)(nil)
