package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/famnote/internal/model"
)

// dateLayout はDATE型カラムとの比較に使う日付書式。
// time.Timeをそのまま渡すとタイムゾーン変換で日付がずれるため、
// 日付文字列に落としてから比較する。
const dateLayout = "2006-01-02"

// PostgresQuestionRepo はPostgreSQLを使用した質問リポジトリ。
type PostgresQuestionRepo struct {
	db *sql.DB
}

// NewPostgresQuestionRepo はPostgresQuestionRepoを生成する。
func NewPostgresQuestionRepo(db *sql.DB) *PostgresQuestionRepo {
	return &PostgresQuestionRepo{db: db}
}

func scanQuestion(row *sql.Row) (*model.Question, error) {
	question := &model.Question{}
	var activationDate sql.NullTime

	err := row.Scan(
		&question.ID, &question.Text, &activationDate, &question.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("質問の取得に失敗しました: %w", err)
	}

	if activationDate.Valid {
		question.ActivationDate = &activationDate.Time
	}
	return question, nil
}

// FindByID は指定IDの質問を取得する。見つからない場合はnilを返す。
func (r *PostgresQuestionRepo) FindByID(ctx context.Context, id int64) (*model.Question, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, question_text, activation_date, created_at
		 FROM questions WHERE id = $1`,
		id,
	)
	return scanQuestion(row)
}

// FindByActivationDate は指定日付に活性化された質問を取得する。
// 見つからない場合はnilを返す。
func (r *PostgresQuestionRepo) FindByActivationDate(ctx context.Context, date time.Time) (*model.Question, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, question_text, activation_date, created_at
		 FROM questions WHERE activation_date = $1`,
		date.Format(dateLayout),
	)
	return scanQuestion(row)
}

// FindFirstUnactivated は未活性化の質問のうちIDが最小のものを取得する。
// 見つからない場合はnilを返す。
func (r *PostgresQuestionRepo) FindFirstUnactivated(ctx context.Context) (*model.Question, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, question_text, activation_date, created_at
		 FROM questions WHERE activation_date IS NULL
		 ORDER BY id LIMIT 1`,
	)
	return scanQuestion(row)
}

// ListByActivationDateBetween は期間内に活性化された質問一覧を
// 活性化日付の昇順で返す。
func (r *PostgresQuestionRepo) ListByActivationDateBetween(ctx context.Context, start, end time.Time) ([]*model.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_text, activation_date, created_at
		 FROM questions
		 WHERE activation_date BETWEEN $1 AND $2
		 ORDER BY activation_date`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("質問一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var questions []*model.Question
	for rows.Next() {
		question := &model.Question{}
		var activationDate sql.NullTime
		if err := rows.Scan(
			&question.ID, &question.Text, &activationDate, &question.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("質問の読み取りに失敗しました: %w", err)
		}
		if activationDate.Valid {
			question.ActivationDate = &activationDate.Time
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("質問一覧の走査に失敗しました: %w", err)
	}
	return questions, nil
}

// Activate は質問の活性化日付を設定する。
// 未活性化の質問のみを対象とし、既に活性化済みの場合は変更しない。
func (r *PostgresQuestionRepo) Activate(ctx context.Context, id int64, date time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE questions SET activation_date = $2
		 WHERE id = $1 AND activation_date IS NULL`,
		id, date.Format(dateLayout),
	)
	if err != nil {
		return fmt.Errorf("質問の活性化に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ QuestionRepository = (*PostgresQuestionRepo)(nil)
