package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/famnote/internal/journal"
	"github.com/hitoshi/famnote/internal/metrics"
	"github.com/hitoshi/famnote/internal/middleware"
	"github.com/hitoshi/famnote/internal/model"
)

// JournalServiceInterface は日記ハンドラーが必要とするサービスインターフェース。
type JournalServiceInterface interface {
	// CreateDaily は日記を作成する。
	CreateDaily(ctx context.Context, userID, content string) (*model.Daily, error)
	// GetWeeklyDailies は今週の日記一覧をいいね数・コメント数付きで返す。
	GetWeeklyDailies(ctx context.Context, userID string) ([]model.DailyWithCounts, error)
	// GetDailyDetail は日記詳細（コメント一覧・いいね状態）を返す。
	GetDailyDetail(ctx context.Context, userID, dailyID string) (*journal.DailyDetail, error)
	// UpdateDaily は自分の日記の本文を更新する。
	UpdateDaily(ctx context.Context, userID, dailyID, content string) (*model.Daily, error)
	// DeleteDaily は自分の日記を削除する。
	DeleteDaily(ctx context.Context, userID, dailyID string) error
	// AddComment は日記にコメントを追加する。
	AddComment(ctx context.Context, userID, dailyID, content string) (*model.Comment, error)
	// UpdateComment は自分のコメントの本文を更新する。
	UpdateComment(ctx context.Context, userID, dailyID, commentID, content string) (*model.Comment, error)
	// DeleteComment は自分のコメントを削除する。
	DeleteComment(ctx context.Context, userID, dailyID, commentID string) error
	// ToggleLike はいいねの登録と取り消しを切り替え、操作後の状態を返す。
	ToggleLike(ctx context.Context, userID, dailyID string) (bool, error)
}

// JournalHandler は日記のHTTPハンドラー。
type JournalHandler struct {
	service JournalServiceInterface
	metrics metrics.MetricsCollector
}

// NewJournalHandler はJournalHandlerを生成する。
func NewJournalHandler(service JournalServiceInterface, collector metrics.MetricsCollector) *JournalHandler {
	return &JournalHandler{
		service: service,
		metrics: collector,
	}
}

// contentRequest は本文のみのリクエストボディ。日記・コメント共通。
type contentRequest struct {
	Content string `json:"content"`
}

// dailyResponse は日記のAPIレスポンス。
type dailyResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// dailyWithCountsResponse はいいね数・コメント数付き日記のAPIレスポンス。
type dailyWithCountsResponse struct {
	dailyResponse
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`
}

// commentResponse はコメントのAPIレスポンス。
type commentResponse struct {
	ID        string    `json:"id"`
	DailyID   string    `json:"daily_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// dailyDetailResponse は日記詳細のAPIレスポンス。
type dailyDetailResponse struct {
	Daily    dailyResponse     `json:"daily"`
	Comments []commentResponse `json:"comments"`
	Liked    bool              `json:"liked"`
}

// likeResponse はいいねトグルのAPIレスポンス。
type likeResponse struct {
	Liked bool `json:"liked"`
}

// CreateDaily は日記作成を処理する。
// POST /api/dailies
func (h *JournalHandler) CreateDaily(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	daily, err := h.service.CreateDaily(r.Context(), userID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordDailyCreated()

	writeJSON(w, http.StatusCreated, toDailyResponse(daily))
}

// Weekly は今週（月曜〜日曜）の日記一覧を返す。
// GET /api/dailies/weekly
func (h *JournalHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	dailies, err := h.service.GetWeeklyDailies(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]dailyWithCountsResponse, 0, len(dailies))
	for _, d := range dailies {
		res = append(res, dailyWithCountsResponse{
			dailyResponse: toDailyResponse(&d.Daily),
			LikeCount:     d.LikeCount,
			CommentCount:  d.CommentCount,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

// Detail は日記詳細を返す。
// GET /api/dailies/{id}
func (h *JournalHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	detail, err := h.service.GetDailyDetail(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := dailyDetailResponse{
		Daily:    toDailyResponse(detail.Daily),
		Comments: make([]commentResponse, 0, len(detail.Comments)),
		Liked:    detail.Liked,
	}
	for _, c := range detail.Comments {
		res.Comments = append(res.Comments, toCommentResponse(c))
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateDaily は日記の編集を処理する。
// PUT /api/dailies/{id}
func (h *JournalHandler) UpdateDaily(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	daily, err := h.service.UpdateDaily(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyResponse(daily))
}

// DeleteDaily は日記の削除を処理する。
// DELETE /api/dailies/{id}
func (h *JournalHandler) DeleteDaily(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteDaily(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddComment はコメント追加を処理する。
// POST /api/dailies/{id}/comments
func (h *JournalHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// UpdateComment はコメント編集を処理する。
// PUT /api/dailies/{id}/comments/{commentID}
func (h *JournalHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), userID,
		chi.URLParam(r, "id"), chi.URLParam(r, "commentID"), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// DeleteComment はコメント削除を処理する。
// DELETE /api/dailies/{id}/comments/{commentID}
func (h *JournalHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteComment(r.Context(), userID,
		chi.URLParam(r, "id"), chi.URLParam(r, "commentID")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike はいいねのトグルを処理する。
// PUT /api/dailies/{id}/like
func (h *JournalHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	liked, err := h.service.ToggleLike(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeResponse{Liked: liked})
}

// toDailyResponse はmodel.DailyからAPIレスポンスに変換する。
func toDailyResponse(d *model.Daily) dailyResponse {
	return dailyResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		Date:      d.Date.Format(dateLayout),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// toCommentResponse はmodel.CommentからAPIレスポンスに変換する。
func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		DailyID:   c.DailyID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
