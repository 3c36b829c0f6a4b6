// Package model はドメインモデルを定義する。
package model

import "time"

// FamilyGroup は家族グループを表す。
type FamilyGroup struct {
	ID          string
	Name        string
	InviteCode  string
	AdminUserID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JoinStatus は加入申請の処理状態を表す。
type JoinStatus string

const (
	// JoinStatusPending は未処理の加入申請。
	JoinStatusPending JoinStatus = "pending"
	// JoinStatusApproved は承認された加入申請。
	JoinStatusApproved JoinStatus = "approved"
	// JoinStatusRejected は拒否された加入申請。
	JoinStatusRejected JoinStatus = "rejected"
)

// JoinRequest は招待コードによるグループ加入申請を表す。
type JoinRequest struct {
	ID         string
	UserID     string
	GroupID    string
	InviteCode string
	Status     JoinStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
