package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/famnote/internal/model"
)

// PostgresDailyRepo はPostgreSQLを使用した日記リポジトリ。
type PostgresDailyRepo struct {
	db *sql.DB
}

// NewPostgresDailyRepo はPostgresDailyRepoを生成する。
func NewPostgresDailyRepo(db *sql.DB) *PostgresDailyRepo {
	return &PostgresDailyRepo{db: db}
}

// FindByID は指定IDの日記を取得する。見つからない場合はnilを返す。
func (r *PostgresDailyRepo) FindByID(ctx context.Context, id string) (*model.Daily, error) {
	daily := &model.Daily{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, group_id, date, content, created_at, updated_at
		 FROM dailies WHERE id = $1`,
		id,
	).Scan(
		&daily.ID, &daily.UserID, &daily.GroupID,
		&daily.Date, &daily.Content,
		&daily.CreatedAt, &daily.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("日記の取得に失敗しました: %w", err)
	}
	return daily, nil
}

// Create は日記を作成する。
func (r *PostgresDailyRepo) Create(ctx context.Context, daily *model.Daily) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dailies (id, user_id, group_id, date, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		daily.ID, daily.UserID, daily.GroupID,
		daily.Date, daily.Content,
		daily.CreatedAt, daily.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("日記の作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateContent は日記本文を更新する。
func (r *PostgresDailyRepo) UpdateContent(ctx context.Context, id, content string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dailies SET content = $2, updated_at = now() WHERE id = $1`,
		id, content,
	)
	if err != nil {
		return fmt.Errorf("日記の更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は日記を削除する。コメント・いいねはCASCADE削除される。
func (r *PostgresDailyRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM dailies WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("日記の削除に失敗しました: %w", err)
	}
	return nil
}

// ListByGroupAndDateRange はグループの期間内の日記一覧を
// いいね数・コメント数付きで日付昇順で返す。
func (r *PostgresDailyRepo) ListByGroupAndDateRange(ctx context.Context, groupID string, start, end time.Time) ([]model.DailyWithCounts, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.user_id, d.group_id, d.date, d.content, d.created_at, d.updated_at,
		        COUNT(DISTINCT l.id) AS like_count,
		        COUNT(DISTINCT c.id) AS comment_count
		 FROM dailies d
		 LEFT JOIN daily_likes l ON l.daily_id = d.id
		 LEFT JOIN comments c ON c.daily_id = d.id
		 WHERE d.group_id = $1 AND d.date BETWEEN $2 AND $3
		 GROUP BY d.id
		 ORDER BY d.date, d.created_at`,
		groupID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("日記一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var dailies []model.DailyWithCounts
	for rows.Next() {
		var d model.DailyWithCounts
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.GroupID,
			&d.Date, &d.Content,
			&d.CreatedAt, &d.UpdatedAt,
			&d.LikeCount, &d.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("日記の読み取りに失敗しました: %w", err)
		}
		dailies = append(dailies, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("日記一覧の走査に失敗しました: %w", err)
	}
	return dailies, nil
}

// compile-time interface check
var _ DailyRepository = (*PostgresDailyRepo)(nil)
