package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/famnote/internal/model"
)

// PostgresLikeRepo はPostgreSQLを使用したいいねリポジトリ。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// FindByDailyAndUser は日記IDとユーザーIDでいいねを検索する。見つからない場合はnilを返す。
func (r *PostgresLikeRepo) FindByDailyAndUser(ctx context.Context, dailyID, userID string) (*model.DailyLike, error) {
	like := &model.DailyLike{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, daily_id, user_id, created_at
		 FROM daily_likes WHERE daily_id = $1 AND user_id = $2`,
		dailyID, userID,
	).Scan(&like.ID, &like.DailyID, &like.UserID, &like.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("いいねの取得に失敗しました: %w", err)
	}
	return like, nil
}

// Create はいいねを作成する。
func (r *PostgresLikeRepo) Create(ctx context.Context, like *model.DailyLike) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_likes (id, daily_id, user_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		like.ID, like.DailyID, like.UserID, like.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("いいねの作成に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID はいいねを削除する。
func (r *PostgresLikeRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM daily_likes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("いいねの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
