package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/famnote/internal/model"
)

// PostgresJoinRequestRepo はPostgreSQLを使用した加入申請リポジトリ。
type PostgresJoinRequestRepo struct {
	db *sql.DB
}

// NewPostgresJoinRequestRepo はPostgresJoinRequestRepoを生成する。
func NewPostgresJoinRequestRepo(db *sql.DB) *PostgresJoinRequestRepo {
	return &PostgresJoinRequestRepo{db: db}
}

const joinRequestColumns = `id, user_id, group_id, invite_code, status, created_at, updated_at`

func scanJoinRequest(row *sql.Row) (*model.JoinRequest, error) {
	req := &model.JoinRequest{}
	err := row.Scan(
		&req.ID, &req.UserID, &req.GroupID, &req.InviteCode,
		&req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("加入申請の取得に失敗しました: %w", err)
	}
	return req, nil
}

// Create は加入申請を作成する。
func (r *PostgresJoinRequestRepo) Create(ctx context.Context, req *model.JoinRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO join_requests (id, user_id, group_id, invite_code, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, req.UserID, req.GroupID, req.InviteCode,
		req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("加入申請の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの加入申請を取得する。見つからない場合はnilを返す。
func (r *PostgresJoinRequestRepo) FindByID(ctx context.Context, id string) (*model.JoinRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+joinRequestColumns+` FROM join_requests WHERE id = $1`,
		id,
	)
	return scanJoinRequest(row)
}

// FindByUserID はユーザーの最新の加入申請を取得する。見つからない場合はnilを返す。
func (r *PostgresJoinRequestRepo) FindByUserID(ctx context.Context, userID string) (*model.JoinRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+joinRequestColumns+` FROM join_requests
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	)
	return scanJoinRequest(row)
}

// ListByGroupID はグループ宛の加入申請一覧を作成日時昇順で返す。
func (r *PostgresJoinRequestRepo) ListByGroupID(ctx context.Context, groupID string) ([]*model.JoinRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+joinRequestColumns+` FROM join_requests
		 WHERE group_id = $1 ORDER BY created_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("加入申請一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var reqs []*model.JoinRequest
	for rows.Next() {
		req := &model.JoinRequest{}
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.GroupID, &req.InviteCode,
			&req.Status, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("加入申請の読み取りに失敗しました: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("加入申請一覧の走査に失敗しました: %w", err)
	}
	return reqs, nil
}

// UpdateStatus は加入申請のステータスを更新する。
func (r *PostgresJoinRequestRepo) UpdateStatus(ctx context.Context, id string, status model.JoinStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE join_requests SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("加入申請ステータスの更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ JoinRequestRepository = (*PostgresJoinRequestRepo)(nil)
