package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/famnote/internal/intimacy"
	"github.com/hitoshi/famnote/internal/middleware"
	"github.com/hitoshi/famnote/internal/model"
)

// IntimacyServiceInterface は親密度ハンドラーが必要とするサービスインターフェース。
type IntimacyServiceInterface interface {
	// SubmitTest はテストの回答を受け付け、スコアを算出して保存する。
	SubmitTest(ctx context.Context, userID string, answers []int) (*model.IntimacyScore, error)
	// GetMyLatestScore は自分の最新スコアを返す。
	GetMyLatestScore(ctx context.Context, userID string) (*model.IntimacyScore, error)
	// GetFamilyAverage はグループ構成員の最新スコアと平均を返す。
	GetFamilyAverage(ctx context.Context, userID string) (*intimacy.FamilyAverage, error)
}

// IntimacyHandler は親密度テストのHTTPハンドラー。
type IntimacyHandler struct {
	service IntimacyServiceInterface
}

// NewIntimacyHandler はIntimacyHandlerを生成する。
func NewIntimacyHandler(service IntimacyServiceInterface) *IntimacyHandler {
	return &IntimacyHandler{service: service}
}

// submitTestRequest はテスト受験リクエストのボディ。
type submitTestRequest struct {
	Answers []int `json:"answers"`
}

// scoreResponse はスコアのAPIレスポンス。
type scoreResponse struct {
	Score    int    `json:"score"`
	TestDate string `json:"test_date"`
}

// memberScoreResponse は構成員のスコアのAPIレスポンス。
type memberScoreResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
	Taken       bool   `json:"taken"`
}

// familyAverageResponse はグループの親密度集計のAPIレスポンス。
type familyAverageResponse struct {
	Average float64               `json:"average"`
	Members []memberScoreResponse `json:"members"`
}

// SubmitTest はテスト受験を処理する。
// POST /api/intimacy/tests
func (h *IntimacyHandler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req submitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	score, err := h.service.SubmitTest(r.Context(), userID, req.Answers)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toScoreResponse(score))
}

// MyScore は自分の最新スコアを返す。
// GET /api/intimacy/me
func (h *IntimacyHandler) MyScore(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	score, err := h.service.GetMyLatestScore(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScoreResponse(score))
}

// FamilyAverage はグループの親密度集計を返す。
// GET /api/intimacy/family
func (h *IntimacyHandler) FamilyAverage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	avg, err := h.service.GetFamilyAverage(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := familyAverageResponse{
		Average: avg.Average,
		Members: make([]memberScoreResponse, 0, len(avg.Members)),
	}
	for _, m := range avg.Members {
		res.Members = append(res.Members, memberScoreResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Score:       m.Score,
			Taken:       m.Taken,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

// toScoreResponse はmodel.IntimacyScoreからAPIレスポンスに変換する。
func toScoreResponse(s *model.IntimacyScore) scoreResponse {
	return scoreResponse{
		Score:    s.Score,
		TestDate: s.TestDate.Format(dateLayout),
	}
}
