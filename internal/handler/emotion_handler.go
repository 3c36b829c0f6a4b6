package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/famnote/internal/emotion"
	"github.com/hitoshi/famnote/internal/middleware"
	"github.com/hitoshi/famnote/internal/model"
)

// EmotionServiceInterface は感情ハンドラーが必要とするサービスインターフェース。
type EmotionServiceInterface interface {
	// CreateEmotion は自分の感情を登録する。
	CreateEmotion(ctx context.Context, userID string, emotionType model.EmotionType) (*model.Emotion, error)
	// UpdateMyEmotion は自分の感情を更新する。nickname指定時はニックネームも変更する。
	UpdateMyEmotion(ctx context.Context, userID string, emotionType model.EmotionType, nickname string) (*model.Emotion, error)
	// GetMemberEmotion は同じグループの構成員の感情を取得する。
	GetMemberEmotion(ctx context.Context, userID, targetUserID string) (*model.Emotion, error)
	// ListGroupEmotions はグループ構成員全員の感情状況を返す。
	ListGroupEmotions(ctx context.Context, userID string) ([]emotion.MemberEmotion, error)
	// UpdateMemberNickname は同じグループの構成員のニックネームを変更する。
	UpdateMemberNickname(ctx context.Context, userID, targetUserID, nickname string) error
}

// EmotionHandler は感情状態のHTTPハンドラー。
type EmotionHandler struct {
	service EmotionServiceInterface
}

// NewEmotionHandler はEmotionHandlerを生成する。
func NewEmotionHandler(service EmotionServiceInterface) *EmotionHandler {
	return &EmotionHandler{service: service}
}

// createEmotionRequest は感情登録リクエストのボディ。
type createEmotionRequest struct {
	Type string `json:"type"`
}

// updateEmotionRequest は感情更新リクエストのボディ。
// ニックネームは省略可能で、指定時はあわせて変更される。
type updateEmotionRequest struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname,omitempty"`
}

// emotionResponse は感情のAPIレスポンス。
type emotionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// memberEmotionResponse は構成員の感情状況のAPIレスポンス。
type memberEmotionResponse struct {
	UserID      string           `json:"user_id"`
	DisplayName string           `json:"display_name"`
	Emotion     *emotionResponse `json:"emotion"`
}

// Create は感情登録を処理する。
// POST /api/emotions
func (h *EmotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	emo, err := h.service.CreateEmotion(r.Context(), userID, model.EmotionType(req.Type))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmotionResponse(emo))
}

// UpdateMine は自分の感情更新を処理する。
// PUT /api/emotions/me
func (h *EmotionHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	emo, err := h.service.UpdateMyEmotion(r.Context(), userID, model.EmotionType(req.Type), req.Nickname)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmotionResponse(emo))
}

// GetMember は構成員の感情を返す。
// GET /api/emotions/members/{userID}
func (h *EmotionHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	emo, err := h.service.GetMemberEmotion(r.Context(), userID, chi.URLParam(r, "userID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmotionResponse(emo))
}

// ListGroup はグループ構成員全員の感情状況を返す。
// GET /api/emotions
func (h *EmotionHandler) ListGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	members, err := h.service.ListGroupEmotions(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]memberEmotionResponse, 0, len(members))
	for _, m := range members {
		entry := memberEmotionResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
		}
		if m.Emotion != nil {
			er := toEmotionResponse(m.Emotion)
			entry.Emotion = &er
		}
		res = append(res, entry)
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateMemberNickname は構成員のニックネーム変更を処理する。
// PUT /api/emotions/members/{userID}/nickname
func (h *EmotionHandler) UpdateMemberNickname(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateNicknameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	if err := h.service.UpdateMemberNickname(r.Context(), userID, chi.URLParam(r, "userID"), req.Nickname); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toEmotionResponse はmodel.EmotionからAPIレスポンスに変換する。
func toEmotionResponse(e *model.Emotion) emotionResponse {
	return emotionResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Type:      string(e.Type),
		UpdatedAt: e.UpdatedAt,
	}
}
