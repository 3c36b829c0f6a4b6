// Package handler はHTTP APIのハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/famnote/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeUnauthorized は認証エラーレスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// writeInvalidBody はリクエストボディ解析失敗のレスポンスを書き込む。
func writeInvalidBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest,
		model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized, model.ErrCodeLoginFailed, model.ErrCodeInvalidRefreshToken:
		return http.StatusUnauthorized
	case model.ErrCodeAnswerRequired, model.ErrCodeNotOwner, model.ErrCodeGroupRequired,
		model.ErrCodeNotGroupAdmin, model.ErrCodeNotSameGroup:
		return http.StatusForbidden
	case model.ErrCodeUserNotFound, model.ErrCodeGroupNotFound, model.ErrCodeInviteCodeNotFound,
		model.ErrCodeJoinReqNotFound, model.ErrCodeQuestionNotFound, model.ErrCodeAnswerNotFound,
		model.ErrCodeDailyNotFound, model.ErrCodeCommentNotFound, model.ErrCodeEmotionNotFound,
		model.ErrCodeIntimacyRecordNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmailTaken, model.ErrCodeAnswerExists, model.ErrCodeEmotionExists,
		model.ErrCodeAlreadyInGroup, model.ErrCodeGroupAlreadyCreated, model.ErrCodeInvalidJoinStatus:
		return http.StatusConflict
	case model.ErrCodeInvalidRequest, model.ErrCodeInvalidAnswerCount, model.ErrCodeQuestionNotPrepared,
		model.ErrCodeNotActiveQuestion, model.ErrCodeAnswerWindowClosed, model.ErrCodeCommentNotInDaily:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
