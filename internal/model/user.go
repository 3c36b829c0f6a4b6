// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// GroupIDがnilの間は家族グループ未所属（承認前）とみなす。
type User struct {
	ID           string
	Email        string
	Name         string
	Nickname     string
	PasswordHash string
	GroupID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Approved は承認済み（家族グループ所属）ユーザーかどうかを返す。
func (u *User) Approved() bool {
	return u.GroupID != nil && *u.GroupID != ""
}

// DisplayName は表示用の名前を返す。ニックネーム優先。
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

// RefreshToken はリフレッシュトークンを表す。
// ローテーション方式: 使用されるたびに失効し、新しいトークンに差し替える。
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Valid はトークンが未失効かつ期限内であるかを返す。
func (t *RefreshToken) Valid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
