package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/famnote/internal/metrics"
	"github.com/hitoshi/famnote/internal/middleware"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/qna"
)

// dateLayout はAPIレスポンスの日付表現。
const dateLayout = "2006-01-02"

// QnaServiceInterface は質問ハンドラーが必要とするサービスインターフェース。
type QnaServiceInterface interface {
	// GetTodayQuestion は現在の論理日に活性化されている質問を返す。
	GetTodayQuestion(ctx context.Context, userID string) (*qna.TodayQuestion, error)
	// GetMonthlyQuestions は指定月に活性化された質問一覧を返す。
	GetMonthlyQuestions(ctx context.Context, userID string, year int, month time.Month) ([]*model.Question, error)
	// GetQuestionDetail は質問詳細（構成員の回答一覧）を返す。
	GetQuestionDetail(ctx context.Context, userID string, questionID int64) (*qna.QuestionDetail, error)
	// SubmitAnswer は当日の質問への回答を投稿する。
	SubmitAnswer(ctx context.Context, userID string, questionID int64, text string) (*model.Answer, error)
	// EditAnswer は当日投稿した回答を編集する。
	EditAnswer(ctx context.Context, userID string, questionID int64, text string) (*model.Answer, error)
	// DeleteAnswer は当日投稿した回答を削除し、質問IDを返す。
	DeleteAnswer(ctx context.Context, userID string, questionID int64) (int64, error)
}

// QnaHandler は日替わり質問のHTTPハンドラー。
type QnaHandler struct {
	service QnaServiceInterface
	metrics metrics.MetricsCollector
}

// NewQnaHandler はQnaHandlerを生成する。
func NewQnaHandler(service QnaServiceInterface, collector metrics.MetricsCollector) *QnaHandler {
	return &QnaHandler{
		service: service,
		metrics: collector,
	}
}

// answerTextRequest は回答の投稿・編集リクエストのボディ。
type answerTextRequest struct {
	Text string `json:"text"`
}

// questionResponse は質問のAPIレスポンス。
type questionResponse struct {
	ID             int64   `json:"id"`
	Text           string  `json:"text"`
	ActivationDate *string `json:"activation_date"`
}

// todayQuestionResponse は「今日の質問」のAPIレスポンス。
type todayQuestionResponse struct {
	Question questionResponse `json:"question"`
	Answered bool             `json:"answered"`
}

// answerResponse は回答のAPIレスポンス。
type answerResponse struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// memberAnswerResponse は構成員の回答状況のAPIレスポンス。
// 未回答の構成員はAnswer=nullのプレースホルダーになる。
type memberAnswerResponse struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Answered    bool            `json:"answered"`
	Answer      *answerResponse `json:"answer"`
}

// questionDetailResponse は質問詳細のAPIレスポンス。
type questionDetailResponse struct {
	Question questionResponse       `json:"question"`
	State    string                 `json:"state"`
	Members  []memberAnswerResponse `json:"members"`
}

// Today は「今日の質問」を返す。
// GET /api/questions/today
func (h *QnaHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	today, err := h.service.GetTodayQuestion(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todayQuestionResponse{
		Question: toQuestionResponse(today.Question),
		Answered: today.Answered,
	})
}

// Monthly は指定月に活性化された質問一覧を返す。
// GET /api/questions?year=2025&month=6
func (h *QnaHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("yearの指定が不正です"))
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("monthの指定が不正です"))
		return
	}

	questions, err := h.service.GetMonthlyQuestions(r.Context(), userID, year, time.Month(month))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		res = append(res, toQuestionResponse(q))
	}
	writeJSON(w, http.StatusOK, res)
}

// Detail は質問詳細（構成員の回答一覧）を返す。
// 当日の質問は回答済みの場合のみ閲覧できる。
// GET /api/questions/{id}
func (h *QnaHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	questionID, ok := questionIDFromURL(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetQuestionDetail(r.Context(), userID, questionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := questionDetailResponse{
		Question: toQuestionResponse(detail.Question),
		State:    string(detail.State),
		Members:  make([]memberAnswerResponse, 0, len(detail.Members)),
	}
	for _, m := range detail.Members {
		entry := memberAnswerResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
		}
		if m.Answer != nil {
			entry.Answered = true
			ar := toAnswerResponse(m.Answer)
			entry.Answer = &ar
		}
		res.Members = append(res.Members, entry)
	}
	writeJSON(w, http.StatusOK, res)
}

// SubmitAnswer は当日の質問への回答投稿を処理する。
// POST /api/questions/{id}/answers
func (h *QnaHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	questionID, ok := questionIDFromURL(w, r)
	if !ok {
		return
	}

	var req answerTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	answer, err := h.service.SubmitAnswer(r.Context(), userID, questionID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordAnswerSubmitted()

	writeJSON(w, http.StatusCreated, toAnswerResponse(answer))
}

// EditAnswer は当日投稿した回答の編集を処理する。
// PUT /api/questions/{id}/answers
func (h *QnaHandler) EditAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	questionID, ok := questionIDFromURL(w, r)
	if !ok {
		return
	}

	var req answerTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	answer, err := h.service.EditAnswer(r.Context(), userID, questionID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAnswerResponse(answer))
}

// DeleteAnswer は当日投稿した回答の削除を処理する。
// DELETE /api/questions/{id}/answers
func (h *QnaHandler) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	questionID, ok := questionIDFromURL(w, r)
	if !ok {
		return
	}

	if _, err := h.service.DeleteAnswer(r.Context(), userID, questionID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// questionIDFromURL はURLパラメータから質問IDを取り出す。
// 不正な場合はエラーレスポンスを書き込み、falseを返す。
func questionIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("質問IDの指定が不正です"))
		return 0, false
	}
	return id, true
}

// toQuestionResponse はmodel.QuestionからAPIレスポンスに変換する。
func toQuestionResponse(q *model.Question) questionResponse {
	res := questionResponse{
		ID:   q.ID,
		Text: q.Text,
	}
	if q.ActivationDate != nil {
		d := q.ActivationDate.Format(dateLayout)
		res.ActivationDate = &d
	}
	return res
}

// toAnswerResponse はmodel.AnswerからAPIレスポンスに変換する。
func toAnswerResponse(a *model.Answer) answerResponse {
	return answerResponse{
		ID:        a.ID,
		Text:      a.Text,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
