// Package model はドメインモデルを定義する。
package model

import "time"

// EmotionType は感情の種類を表す。
type EmotionType string

const (
	EmotionHappy   EmotionType = "happy"
	EmotionSad     EmotionType = "sad"
	EmotionAngry   EmotionType = "angry"
	EmotionTired   EmotionType = "tired"
	EmotionAnxious EmotionType = "anxious"
	EmotionCalm    EmotionType = "calm"
)

// ValidEmotionType は既知の感情種別かどうかを返す。
func ValidEmotionType(t EmotionType) bool {
	switch t {
	case EmotionHappy, EmotionSad, EmotionAngry, EmotionTired, EmotionAnxious, EmotionCalm:
		return true
	}
	return false
}

// Emotion はユーザーの現在の感情状態を表す。1ユーザーにつき最大1件。
type Emotion struct {
	ID        string
	UserID    string
	GroupID   string
	Type      EmotionType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID は感情の所有者IDを返す。
func (e *Emotion) OwnerID() string { return e.UserID }
