package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/famnote/internal/model"
)

// PostgresAnswerRepo はPostgreSQLを使用した回答リポジトリ。
type PostgresAnswerRepo struct {
	db *sql.DB
}

// NewPostgresAnswerRepo はPostgresAnswerRepoを生成する。
func NewPostgresAnswerRepo(db *sql.DB) *PostgresAnswerRepo {
	return &PostgresAnswerRepo{db: db}
}

// FindByQuestionAndUser は質問IDとユーザーIDで回答を検索する。
// 見つからない場合はnilを返す。
func (r *PostgresAnswerRepo) FindByQuestionAndUser(ctx context.Context, questionID int64, userID string) (*model.Answer, error) {
	answer := &model.Answer{}
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, question_id, user_id, answer_text, created_at, updated_at
		 FROM answers WHERE question_id = $1 AND user_id = $2`,
		questionID, userID,
	).Scan(
		&answer.ID, &answer.QuestionID, &answer.UserID,
		&answer.Text, &answer.CreatedAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("回答の取得に失敗しました: %w", err)
	}

	if updatedAt.Valid {
		answer.UpdatedAt = &updatedAt.Time
	}
	return answer, nil
}

// ListByQuestionID は質問に対する全回答を作成日時昇順で返す。
func (r *PostgresAnswerRepo) ListByQuestionID(ctx context.Context, questionID int64) ([]*model.Answer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_id, user_id, answer_text, created_at, updated_at
		 FROM answers WHERE question_id = $1 ORDER BY created_at`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("回答一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var answers []*model.Answer
	for rows.Next() {
		answer := &model.Answer{}
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&answer.ID, &answer.QuestionID, &answer.UserID,
			&answer.Text, &answer.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("回答の読み取りに失敗しました: %w", err)
		}
		if updatedAt.Valid {
			answer.UpdatedAt = &updatedAt.Time
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("回答一覧の走査に失敗しました: %w", err)
	}
	return answers, nil
}

// Create は回答を作成する。DBが採番したIDをanswer.IDに書き戻す。
func (r *PostgresAnswerRepo) Create(ctx context.Context, answer *model.Answer) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO answers (question_id, user_id, answer_text, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		answer.QuestionID, answer.UserID, answer.Text, answer.CreatedAt,
	).Scan(&answer.ID)
	if err != nil {
		return fmt.Errorf("回答の作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateText は回答本文と更新日時を更新する。
func (r *PostgresAnswerRepo) UpdateText(ctx context.Context, id int64, text string, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE answers SET answer_text = $2, updated_at = $3 WHERE id = $1`,
		id, text, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("回答の更新に失敗しました: %w", err)
	}
	return nil
}

// DeleteByQuestionAndUser は質問IDとユーザーIDに一致する回答を削除する。
func (r *PostgresAnswerRepo) DeleteByQuestionAndUser(ctx context.Context, questionID int64, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM answers WHERE question_id = $1 AND user_id = $2`,
		questionID, userID,
	)
	if err != nil {
		return fmt.Errorf("回答の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AnswerRepository = (*PostgresAnswerRepo)(nil)
