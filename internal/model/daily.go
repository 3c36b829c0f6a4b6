// Package model はドメインモデルを定義する。
package model

import "time"

// Daily は日記の投稿を表す。
type Daily struct {
	ID        string
	UserID    string
	GroupID   string
	Date      time.Time // 投稿日（日付のみ意味を持つ）
	Content   string    // サニタイズ済みテキスト
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID は投稿の所有者IDを返す。
func (d *Daily) OwnerID() string { return d.UserID }

// DailyWithCounts は日記といいね数・コメント数を結合したモデル。
// 週間一覧取得でJOINして取得される。
type DailyWithCounts struct {
	Daily
	LikeCount    int
	CommentCount int
}

// Comment は日記へのコメントを表す。
type Comment struct {
	ID        string
	DailyID   string
	UserID    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID はコメントの所有者IDを返す。
func (c *Comment) OwnerID() string { return c.UserID }

// DailyLike は日記へのいいねを表す。1ユーザー1投稿につき最大1件。
type DailyLike struct {
	ID        string
	DailyID   string
	UserID    string
	CreatedAt time.Time
}
