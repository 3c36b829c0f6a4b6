package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/famnote/internal/middleware"
	"github.com/hitoshi/famnote/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetMe は自分のプロフィールを取得する。
	GetMe(ctx context.Context, userID string) (*model.User, error)
	// IsEmailAvailable はメールアドレスが未登録かどうかを返す。
	IsEmailAvailable(ctx context.Context, email string) (bool, error)
	// UpdateNickname は自分のニックネームを更新する。
	UpdateNickname(ctx context.Context, userID, nickname string) error
	// Withdraw は退会処理を実行する。関連データはCASCADE削除される。
	Withdraw(ctx context.Context, userID string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname,omitempty"`
	GroupID   *string   `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

// updateNicknameRequest はニックネーム更新リクエストのボディ。
type updateNicknameRequest struct {
	Nickname string `json:"nickname"`
}

// emailAvailabilityResponse はメールアドレス空き確認のレスポンス。
type emailAvailabilityResponse struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
}

// Me は自分のプロフィールを返す。
// GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// CheckEmail はメールアドレスの空き確認を処理する。認証不要。
// GET /auth/email-availability?email=...
func (h *UserHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	available, err := h.service.IsEmailAvailable(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, emailAvailabilityResponse{
		Email:     email,
		Available: available,
	})
}

// UpdateNickname は自分のニックネームを更新する。
// PUT /api/users/me/nickname
func (h *UserHandler) UpdateNickname(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.UpdateNickname(r.Context(), userID, req.Nickname); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Withdraw は退会処理を実行する。
// DELETE /api/users/me
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Nickname:  user.Nickname,
		GroupID:   user.GroupID,
		CreatedAt: user.CreatedAt,
	}
}
