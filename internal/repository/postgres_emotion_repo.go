package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/famnote/internal/model"
)

// PostgresEmotionRepo はPostgreSQLを使用した感情リポジトリ。
type PostgresEmotionRepo struct {
	db *sql.DB
}

// NewPostgresEmotionRepo はPostgresEmotionRepoを生成する。
func NewPostgresEmotionRepo(db *sql.DB) *PostgresEmotionRepo {
	return &PostgresEmotionRepo{db: db}
}

func scanEmotion(row *sql.Row) (*model.Emotion, error) {
	emotion := &model.Emotion{}
	err := row.Scan(
		&emotion.ID, &emotion.UserID, &emotion.GroupID,
		&emotion.Type, &emotion.CreatedAt, &emotion.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("感情の取得に失敗しました: %w", err)
	}
	return emotion, nil
}

// FindByID は指定IDの感情を取得する。見つからない場合はnilを返す。
func (r *PostgresEmotionRepo) FindByID(ctx context.Context, id string) (*model.Emotion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, group_id, emotion_type, created_at, updated_at
		 FROM emotions WHERE id = $1`,
		id,
	)
	return scanEmotion(row)
}

// FindByUserID はユーザーの感情を取得する。見つからない場合はnilを返す。
func (r *PostgresEmotionRepo) FindByUserID(ctx context.Context, userID string) (*model.Emotion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, group_id, emotion_type, created_at, updated_at
		 FROM emotions WHERE user_id = $1`,
		userID,
	)
	return scanEmotion(row)
}

// ListByGroupID はグループ全員の感情一覧を返す。
func (r *PostgresEmotionRepo) ListByGroupID(ctx context.Context, groupID string) ([]*model.Emotion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, group_id, emotion_type, created_at, updated_at
		 FROM emotions WHERE group_id = $1 ORDER BY updated_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("感情一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var emotions []*model.Emotion
	for rows.Next() {
		emotion := &model.Emotion{}
		if err := rows.Scan(
			&emotion.ID, &emotion.UserID, &emotion.GroupID,
			&emotion.Type, &emotion.CreatedAt, &emotion.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("感情の読み取りに失敗しました: %w", err)
		}
		emotions = append(emotions, emotion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("感情一覧の走査に失敗しました: %w", err)
	}
	return emotions, nil
}

// Create は感情を作成する。
func (r *PostgresEmotionRepo) Create(ctx context.Context, emotion *model.Emotion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO emotions (id, user_id, group_id, emotion_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		emotion.ID, emotion.UserID, emotion.GroupID,
		emotion.Type, emotion.CreatedAt, emotion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("感情の作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateType は感情種別を更新する。
func (r *PostgresEmotionRepo) UpdateType(ctx context.Context, id string, emotionType model.EmotionType) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE emotions SET emotion_type = $2, updated_at = now() WHERE id = $1`,
		id, emotionType,
	)
	if err != nil {
		return fmt.Errorf("感情の更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ EmotionRepository = (*PostgresEmotionRepo)(nil)
