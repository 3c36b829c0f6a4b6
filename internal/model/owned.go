// Package model はドメインモデルを定義する。
package model

// Owned は所有者を持つリソースを表す。
// 編集・削除前の所有者チェックはIsOwnerに一本化し、
// サービスごとのID比較の散在を避ける。
type Owned interface {
	OwnerID() string
}

// IsOwner はリソースが指定ユーザーの所有物かどうかを返す。
func IsOwner(o Owned, userID string) bool {
	return o != nil && userID != "" && o.OwnerID() == userID
}
