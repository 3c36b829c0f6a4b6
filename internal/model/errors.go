// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, group, journal, qna, emotion, intimacy, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeLoginFailed         = "LOGIN_FAILED"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"

	ErrCodeGroupNotFound       = "GROUP_NOT_FOUND"
	ErrCodeGroupRequired       = "GROUP_REQUIRED"
	ErrCodeGroupAlreadyCreated = "GROUP_ALREADY_CREATED"
	ErrCodeAlreadyInGroup      = "ALREADY_IN_GROUP"
	ErrCodeInviteCodeNotFound  = "INVITE_CODE_NOT_FOUND"
	ErrCodeJoinReqNotFound     = "JOIN_REQUEST_NOT_FOUND"
	ErrCodeNotGroupAdmin       = "NOT_GROUP_ADMIN"
	ErrCodeInvalidJoinStatus   = "INVALID_JOIN_STATUS"

	ErrCodeQuestionNotPrepared = "QUESTION_NOT_PREPARED"
	ErrCodeQuestionNotFound    = "QUESTION_NOT_FOUND"
	ErrCodeNotActiveQuestion   = "NOT_ACTIVE_QUESTION"
	ErrCodeAnswerExists        = "ANSWER_ALREADY_EXISTS"
	ErrCodeAnswerNotFound      = "ANSWER_NOT_FOUND"
	ErrCodeAnswerWindowClosed  = "ANSWER_WINDOW_CLOSED"
	ErrCodeAnswerRequired      = "ANSWER_REQUIRED"

	ErrCodeDailyNotFound     = "DAILY_NOT_FOUND"
	ErrCodeCommentNotFound   = "COMMENT_NOT_FOUND"
	ErrCodeCommentNotInDaily = "COMMENT_NOT_IN_DAILY"
	ErrCodeNotOwner          = "NOT_OWNER"

	ErrCodeEmotionNotFound = "EMOTION_NOT_FOUND"
	ErrCodeEmotionExists   = "EMOTION_ALREADY_EXISTS"
	ErrCodeNotSameGroup    = "NOT_SAME_GROUP"

	ErrCodeInvalidAnswerCount     = "INVALID_ANSWER_COUNT"
	ErrCodeIntimacyRecordNotFound = "INTIMACY_RECORD_NOT_FOUND"

	ErrCodeInvalidRequest = "INVALID_REQUEST"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewLoginFailedError はログイン失敗エラーを生成する。
// メールアドレス不存在とパスワード不一致を区別しない。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginFailed,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidRefreshTokenError はリフレッシュトークン無効エラーを生成する。
func NewInvalidRefreshTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRefreshToken,
		Message:  "リフレッシュトークンが無効か期限切れです。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewGroupNotFoundError はグループが見つからない場合のエラーを生成する。
func NewGroupNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeGroupNotFound,
		Message:  "家族グループが見つかりません。",
		Category: "group",
		Action:   "グループIDを確認してください。",
	}
}

// NewGroupRequiredError はグループ未所属エラーを生成する。
// 家族グループに承認されたユーザーのみ利用できる操作で使用する。
func NewGroupRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeGroupRequired,
		Message:  "加入承認された家族グループがありません。",
		Category: "group",
		Action:   "家族グループを作成するか、招待コードで加入申請してください。",
	}
}

// NewGroupAlreadyCreatedError はグループ重複作成エラーを生成する。
func NewGroupAlreadyCreatedError() *APIError {
	return &APIError{
		Code:     ErrCodeGroupAlreadyCreated,
		Message:  "作成できるグループは1つだけです。",
		Category: "group",
		Action:   "既存のグループを利用してください。",
	}
}

// NewAlreadyInGroupError はグループ加入済みエラーを生成する。
func NewAlreadyInGroupError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyInGroup,
		Message:  "既に家族グループに加入しています。",
		Category: "group",
		Action:   "現在のグループを確認してください。",
	}
}

// NewInviteCodeNotFoundError は招待コード不正エラーを生成する。
func NewInviteCodeNotFoundError(code string) *APIError {
	return &APIError{
		Code:     ErrCodeInviteCodeNotFound,
		Message:  fmt.Sprintf("招待コードに一致するグループがありません: %s", code),
		Category: "group",
		Action:   "招待コードを確認してください。",
	}
}

// NewJoinRequestNotFoundError は加入申請未検出エラーを生成する。
func NewJoinRequestNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeJoinReqNotFound,
		Message:  "加入申請が見つかりません。",
		Category: "group",
		Action:   "申請IDを確認してください。",
	}
}

// NewNotGroupAdminError はグループ管理者権限エラーを生成する。
func NewNotGroupAdminError() *APIError {
	return &APIError{
		Code:     ErrCodeNotGroupAdmin,
		Message:  "グループ作成者のみ実行できる操作です。",
		Category: "group",
		Action:   "グループ作成者に依頼してください。",
	}
}

// NewInvalidJoinStatusError は加入申請ステータス不正エラーを生成する。
func NewInvalidJoinStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidJoinStatus,
		Message:  fmt.Sprintf("無効な申請ステータスです: %s", status),
		Category: "validation",
		Action:   "ステータスには approved または rejected を指定してください。",
	}
}

// NewQuestionNotPreparedError は今日の質問未準備エラーを生成する。
// 質問が活性化される前の照会は正常系のリトライ対象として扱う。
func NewQuestionNotPreparedError() *APIError {
	return &APIError{
		Code:     ErrCodeQuestionNotPrepared,
		Message:  "今日の質問はまだ準備されていません。",
		Category: "qna",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewQuestionNotFoundError は質問ID不正エラーを生成する。
func NewQuestionNotFoundError(questionID int64) *APIError {
	return &APIError{
		Code:     ErrCodeQuestionNotFound,
		Message:  fmt.Sprintf("質問が見つかりません: %d", questionID),
		Category: "qna",
		Action:   "質問IDを確認してください。",
	}
}

// NewNotActiveQuestionError は非アクティブ質問への操作エラーを生成する。
func NewNotActiveQuestionError() *APIError {
	return &APIError{
		Code:     ErrCodeNotActiveQuestion,
		Message:  "今日アクティブな質問に対してのみ実行できる操作です。",
		Category: "qna",
		Action:   "今日の質問を取得してから操作してください。",
	}
}

// NewAnswerExistsError は回答重複エラーを生成する。
func NewAnswerExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeAnswerExists,
		Message:  "既に回答を登録しています。",
		Category: "qna",
		Action:   "回答の修正には編集操作を使用してください。",
	}
}

// NewAnswerNotFoundError は回答未検出エラーを生成する。
func NewAnswerNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAnswerNotFound,
		Message:  "あなたの回答がありません。",
		Category: "qna",
		Action:   "先に回答を登録してください。",
	}
}

// NewAnswerWindowClosedError は回答編集期限切れエラーを生成する。
func NewAnswerWindowClosedError() *APIError {
	return &APIError{
		Code:     ErrCodeAnswerWindowClosed,
		Message:  "当日（午前5時以降）に登録した回答のみ編集できます。",
		Category: "qna",
		Action:   "翌日以降の回答は変更できません。",
	}
}

// NewAnswerRequiredError は閲覧前回答必須エラーを生成する。
// 今日の質問に限り、自分が回答するまで他の家族の回答は閲覧できない。
func NewAnswerRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAnswerRequired,
		Message:  "回答を登録すると他の家族の回答を見ることができます。",
		Category: "qna",
		Action:   "先に今日の質問に回答してください。",
	}
}

// NewDailyNotFoundError は日記未検出エラーを生成する。
func NewDailyNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeDailyNotFound,
		Message:  "日記が見つかりません。",
		Category: "journal",
		Action:   "日記IDを確認してください。",
	}
}

// NewCommentNotFoundError はコメント未検出エラーを生成する。
func NewCommentNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  "コメントが見つかりません。",
		Category: "journal",
		Action:   "コメントIDを確認してください。",
	}
}

// NewCommentNotInDailyError はコメント所属不一致エラーを生成する。
func NewCommentNotInDailyError() *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotInDaily,
		Message:  "コメントがこの日記に属していません。",
		Category: "journal",
		Action:   "日記IDとコメントIDの組み合わせを確認してください。",
	}
}

// NewNotOwnerError は所有者権限エラーを生成する。
func NewNotOwnerError(resource string) *APIError {
	return &APIError{
		Code:     ErrCodeNotOwner,
		Message:  fmt.Sprintf("本人の%sのみ操作できます。", resource),
		Category: "journal",
		Action:   "自分が作成したものだけを編集・削除してください。",
	}
}

// NewEmotionNotFoundError は感情未検出エラーを生成する。
func NewEmotionNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeEmotionNotFound,
		Message:  "感情が登録されていません。",
		Category: "emotion",
		Action:   "先に感情を登録してください。",
	}
}

// NewEmotionExistsError は感情重複登録エラーを生成する。
func NewEmotionExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeEmotionExists,
		Message:  "既に感情が登録されています。更新のみ可能です。",
		Category: "emotion",
		Action:   "感情の変更には更新操作を使用してください。",
	}
}

// NewNotSameGroupError は他グループ参照エラーを生成する。
func NewNotSameGroupError() *APIError {
	return &APIError{
		Code:     ErrCodeNotSameGroup,
		Message:  "同じグループの構成員に対してのみ実行できる操作です。",
		Category: "group",
		Action:   "対象ユーザーの所属グループを確認してください。",
	}
}

// NewInvalidAnswerCountError は親密度テスト回答数エラーを生成する。
func NewInvalidAnswerCountError(got int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAnswerCount,
		Message:  fmt.Sprintf("回答は10問すべて必要です（受信: %d問）。", got),
		Category: "intimacy",
		Action:   "10問すべてに1〜5で回答してください。",
	}
}

// NewIntimacyRecordNotFoundError は親密度テスト未受験エラーを生成する。
func NewIntimacyRecordNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeIntimacyRecordNotFound,
		Message:  "親密度テストの受験記録がありません。",
		Category: "intimacy",
		Action:   "先に親密度テストを受験してください。",
	}
}

// NewInvalidRequestError はリクエスト形式不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}
