// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/famnote/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail はメールアドレスが登録済みかを返す。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateNickname はユーザーのニックネームを更新する。
	UpdateNickname(ctx context.Context, id, nickname string) error

	// UpdateGroup はユーザーの所属グループを更新する。nilで未所属に戻す。
	UpdateGroup(ctx context.Context, id string, groupID *string) error

	// ListByGroupID はグループ所属ユーザーの一覧をID昇順で返す。
	ListByGroupID(ctx context.Context, groupID string) ([]*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するrefresh_tokens、answers等はCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// RefreshTokenRepository はリフレッシュトークンの永続化インターフェース。
type RefreshTokenRepository interface {
	// Create はリフレッシュトークンを作成する。
	Create(ctx context.Context, token *model.RefreshToken) error

	// FindByTokenHash はトークンハッシュでリフレッシュトークンを検索する。
	// 見つからない場合はnilを返す。失効済み・期限切れの判定は呼び出し側が行う。
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)

	// Revoke は指定IDのトークンを失効させる。
	Revoke(ctx context.Context, id string, revokedAt time.Time) error

	// RevokeAllByUserID は指定ユーザーの全トークンを失効させる。
	RevokeAllByUserID(ctx context.Context, userID string, revokedAt time.Time) error

	// DeleteExpiredBefore は期限切れ・失効済みトークンを削除し、削除件数を返す。
	DeleteExpiredBefore(ctx context.Context, before time.Time) (int64, error)
}

// GroupRepository は家族グループの永続化インターフェース。
type GroupRepository interface {
	// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.FamilyGroup, error)

	// FindByInviteCode は招待コードでグループを検索する。見つからない場合はnilを返す。
	FindByInviteCode(ctx context.Context, code string) (*model.FamilyGroup, error)

	// FindByAdminUserID は管理者ユーザーIDでグループを検索する。見つからない場合はnilを返す。
	FindByAdminUserID(ctx context.Context, adminUserID string) (*model.FamilyGroup, error)

	// Create はグループを作成する。
	Create(ctx context.Context, group *model.FamilyGroup) error

	// UpdateName はグループ名を更新する。
	UpdateName(ctx context.Context, id, name string) error
}

// JoinRequestRepository はグループ加入申請の永続化インターフェース。
type JoinRequestRepository interface {
	// Create は加入申請を作成する。
	Create(ctx context.Context, req *model.JoinRequest) error

	// FindByID は指定IDの加入申請を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.JoinRequest, error)

	// FindByUserID はユーザーの最新の加入申請を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.JoinRequest, error)

	// ListByGroupID はグループ宛の加入申請一覧を作成日時昇順で返す。
	ListByGroupID(ctx context.Context, groupID string) ([]*model.JoinRequest, error)

	// UpdateStatus は加入申請のステータスを更新する。
	UpdateStatus(ctx context.Context, id string, status model.JoinStatus) error
}

// DailyRepository は日記投稿の永続化インターフェース。
type DailyRepository interface {
	// FindByID は指定IDの日記を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Daily, error)

	// Create は日記を作成する。
	Create(ctx context.Context, daily *model.Daily) error

	// UpdateContent は日記本文を更新する。
	UpdateContent(ctx context.Context, id, content string) error

	// DeleteByID は日記を削除する。コメント・いいねはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error

	// ListByGroupAndDateRange はグループの期間内の日記一覧を
	// いいね数・コメント数付きで日付昇順で返す。
	ListByGroupAndDateRange(ctx context.Context, groupID string, start, end time.Time) ([]model.DailyWithCounts, error)
}

// CommentRepository は日記コメントの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByDailyID は日記のコメント一覧を作成日時昇順で返す。
	ListByDailyID(ctx context.Context, dailyID string) ([]*model.Comment, error)

	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// UpdateContent はコメント本文を更新する。
	UpdateContent(ctx context.Context, id, content string) error

	// DeleteByID はコメントを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// LikeRepository は日記いいねの永続化インターフェース。
type LikeRepository interface {
	// FindByDailyAndUser は日記IDとユーザーIDでいいねを検索する。見つからない場合はnilを返す。
	FindByDailyAndUser(ctx context.Context, dailyID, userID string) (*model.DailyLike, error)

	// Create はいいねを作成する。
	Create(ctx context.Context, like *model.DailyLike) error

	// DeleteByID はいいねを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// EmotionRepository は感情状態の永続化インターフェース。
type EmotionRepository interface {
	// FindByID は指定IDの感情を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Emotion, error)

	// FindByUserID はユーザーの感情を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Emotion, error)

	// ListByGroupID はグループ全員の感情一覧を返す。
	ListByGroupID(ctx context.Context, groupID string) ([]*model.Emotion, error)

	// Create は感情を作成する。
	Create(ctx context.Context, emotion *model.Emotion) error

	// UpdateType は感情種別を更新する。
	UpdateType(ctx context.Context, id string, emotionType model.EmotionType) error
}

// QuestionRepository は日替わり質問の永続化インターフェース。
type QuestionRepository interface {
	// FindByID は指定IDの質問を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Question, error)

	// FindByActivationDate は指定日付に活性化された質問を取得する。
	// 見つからない場合はnilを返す。
	FindByActivationDate(ctx context.Context, date time.Time) (*model.Question, error)

	// FindFirstUnactivated は未活性化の質問のうちIDが最小のものを取得する。
	// 見つからない場合はnilを返す。
	FindFirstUnactivated(ctx context.Context) (*model.Question, error)

	// ListByActivationDateBetween は期間内に活性化された質問一覧を
	// 活性化日付の昇順で返す。
	ListByActivationDateBetween(ctx context.Context, start, end time.Time) ([]*model.Question, error)

	// Activate は質問の活性化日付を設定する。
	Activate(ctx context.Context, id int64, date time.Time) error
}

// AnswerRepository は質問回答の永続化インターフェース。
type AnswerRepository interface {
	// FindByQuestionAndUser は質問IDとユーザーIDで回答を検索する。
	// 見つからない場合はnilを返す。
	FindByQuestionAndUser(ctx context.Context, questionID int64, userID string) (*model.Answer, error)

	// ListByQuestionID は質問に対する全回答を作成日時昇順で返す。
	ListByQuestionID(ctx context.Context, questionID int64) ([]*model.Answer, error)

	// Create は回答を作成する。DBが採番したIDをanswer.IDに書き戻す。
	Create(ctx context.Context, answer *model.Answer) error

	// UpdateText は回答本文と更新日時を更新する。
	UpdateText(ctx context.Context, id int64, text string, updatedAt time.Time) error

	// DeleteByQuestionAndUser は質問IDとユーザーIDに一致する回答を削除する。
	DeleteByQuestionAndUser(ctx context.Context, questionID int64, userID string) error
}

// IntimacyRepository は親密度テスト結果の永続化インターフェース。
type IntimacyRepository interface {
	// CreateScore はスコアを作成する。
	CreateScore(ctx context.Context, score *model.IntimacyScore) error

	// CreateResponse は個別回答を作成する。
	CreateResponse(ctx context.Context, resp *model.IntimacyResponse) error

	// FindLatestByUserID はユーザーの最新スコアを取得する。
	// test_date降順、同日はcreated_at降順で最初の1件。見つからない場合はnilを返す。
	FindLatestByUserID(ctx context.Context, userID string) (*model.IntimacyScore, error)
}
