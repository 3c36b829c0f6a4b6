// Package model はドメインモデルを定義する。
package model

import "time"

// IntimacyAnswerCount は親密度テストの設問数。
const IntimacyAnswerCount = 10

// IntimacyScore は親密度テストの受験結果（合計点）を表す。
// スコアは各回答(1〜5)の合計を2倍した値（最大100点）。
type IntimacyScore struct {
	ID        string
	UserID    string
	Score     int
	TestDate  time.Time // 受験日（日付のみ意味を持つ）
	CreatedAt time.Time
}

// IntimacyResponse は親密度テストの個別回答（10問分）を表す。
type IntimacyResponse struct {
	ID        string
	ScoreID   string
	Answers   [IntimacyAnswerCount]int
	CreatedAt time.Time
}
