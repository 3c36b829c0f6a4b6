package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/famnote/internal/model"
)

// PostgresGroupRepo はPostgreSQLを使用した家族グループリポジトリ。
type PostgresGroupRepo struct {
	db *sql.DB
}

// NewPostgresGroupRepo はPostgresGroupRepoを生成する。
func NewPostgresGroupRepo(db *sql.DB) *PostgresGroupRepo {
	return &PostgresGroupRepo{db: db}
}

func scanGroup(row *sql.Row) (*model.FamilyGroup, error) {
	group := &model.FamilyGroup{}
	err := row.Scan(
		&group.ID, &group.Name, &group.InviteCode, &group.AdminUserID,
		&group.CreatedAt, &group.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("グループの取得に失敗しました: %w", err)
	}
	return group, nil
}

// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
func (r *PostgresGroupRepo) FindByID(ctx context.Context, id string) (*model.FamilyGroup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, invite_code, admin_user_id, created_at, updated_at
		 FROM family_groups WHERE id = $1`,
		id,
	)
	return scanGroup(row)
}

// FindByInviteCode は招待コードでグループを検索する。見つからない場合はnilを返す。
func (r *PostgresGroupRepo) FindByInviteCode(ctx context.Context, code string) (*model.FamilyGroup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, invite_code, admin_user_id, created_at, updated_at
		 FROM family_groups WHERE invite_code = $1`,
		code,
	)
	return scanGroup(row)
}

// FindByAdminUserID は管理者ユーザーIDでグループを検索する。見つからない場合はnilを返す。
func (r *PostgresGroupRepo) FindByAdminUserID(ctx context.Context, adminUserID string) (*model.FamilyGroup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, invite_code, admin_user_id, created_at, updated_at
		 FROM family_groups WHERE admin_user_id = $1`,
		adminUserID,
	)
	return scanGroup(row)
}

// Create はグループを作成する。
func (r *PostgresGroupRepo) Create(ctx context.Context, group *model.FamilyGroup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO family_groups (id, name, invite_code, admin_user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		group.ID, group.Name, group.InviteCode, group.AdminUserID,
		group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("グループの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateName はグループ名を更新する。
func (r *PostgresGroupRepo) UpdateName(ctx context.Context, id, name string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE family_groups SET name = $2, updated_at = now() WHERE id = $1`,
		id, name,
	)
	if err != nil {
		return fmt.Errorf("グループ名の更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ GroupRepository = (*PostgresGroupRepo)(nil)
