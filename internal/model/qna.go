// Package model はドメインモデルを定義する。
package model

import "time"

// Question は日替わり質問を表す。
// 質問文は事前に一括投入され、ActivationDateは活性化時に一度だけ設定される。
// 非nilのActivationDateを持つ質問は日付ごとに最大1件（DBの部分ユニーク制約で保証）。
type Question struct {
	ID             int64
	Text           string
	ActivationDate *time.Time // 活性化された日付（日付のみ意味を持つ）。nilなら未活性化。
	CreatedAt      time.Time
}

// QuestionState は質問のライフサイクル状態を表す。
// Pending → Active → Past の一方向にのみ遷移する。
type QuestionState string

const (
	// QuestionPending は未活性化の質問。
	QuestionPending QuestionState = "pending"
	// QuestionActive は当日（論理日）の質問。
	QuestionActive QuestionState = "active"
	// QuestionPast は過去に活性化された質問。
	QuestionPast QuestionState = "past"
)

// StateOn は指定された論理日における質問の状態を返す。
// 呼び出し側でのnilチェック分散を避けるため、状態判定はここに集約する。
func (q *Question) StateOn(logicalDate time.Time) QuestionState {
	if q.ActivationDate == nil {
		return QuestionPending
	}
	if SameDate(*q.ActivationDate, logicalDate) {
		return QuestionActive
	}
	return QuestionPast
}

// SameDate は2つの時刻が同じ暦日かどうかを返す。時刻成分は無視する。
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Answer は質問への回答を表す。(QuestionID, UserID)の組につき最大1件。
type Answer struct {
	ID         int64
	QuestionID int64
	UserID     string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// OwnerID は回答の所有者IDを返す。
func (a *Answer) OwnerID() string { return a.UserID }
