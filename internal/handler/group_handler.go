package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/famnote/internal/middleware"
	"github.com/hitoshi/famnote/internal/model"
)

// GroupServiceInterface はグループハンドラーが必要とするサービスインターフェース。
type GroupServiceInterface interface {
	// CreateGroup は家族グループを作成し、作成者を管理者として所属させる。
	CreateGroup(ctx context.Context, userID, name string) (*model.FamilyGroup, error)
	// RequestJoin は招待コードでグループへの加入を申請する。
	RequestJoin(ctx context.Context, userID, inviteCode string) (*model.JoinRequest, error)
	// GetMyJoinStatus は自分の最新の加入申請を返す。
	GetMyJoinStatus(ctx context.Context, userID string) (*model.JoinRequest, error)
	// ListPendingRequests は管理者が自グループ宛の未処理申請一覧を取得する。
	ListPendingRequests(ctx context.Context, adminUserID string) ([]*model.JoinRequest, error)
	// DecideJoinRequest は管理者が加入申請を承認または拒否する。
	DecideJoinRequest(ctx context.Context, adminUserID, requestID string, approve bool) (*model.JoinRequest, error)
	// RenameGroup は管理者がグループ名を変更する。
	RenameGroup(ctx context.Context, adminUserID, name string) (*model.FamilyGroup, error)
	// GetMyGroup は自分の所属グループと構成員一覧を返す。
	GetMyGroup(ctx context.Context, userID string) (*model.FamilyGroup, []*model.User, error)
}

// GroupHandler は家族グループ管理のHTTPハンドラー。
type GroupHandler struct {
	service GroupServiceInterface
}

// NewGroupHandler はGroupHandlerを生成する。
func NewGroupHandler(service GroupServiceInterface) *GroupHandler {
	return &GroupHandler{service: service}
}

// createGroupRequest はグループ作成リクエストのボディ。
type createGroupRequest struct {
	Name string `json:"name"`
}

// requestJoinRequest は加入申請リクエストのボディ。
type requestJoinRequest struct {
	InviteCode string `json:"invite_code"`
}

// decideJoinRequest は加入申請の承認・拒否リクエストのボディ。
type decideJoinRequest struct {
	Approve bool `json:"approve"`
}

// groupResponse はグループ情報のAPIレスポンス。
// 招待コードは構成員向けレスポンスにのみ含める。
type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	InviteCode  string    `json:"invite_code,omitempty"`
	AdminUserID string    `json:"admin_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// joinRequestResponse は加入申請のAPIレスポンス。
type joinRequestResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// groupDetailResponse はグループと構成員一覧のAPIレスポンス。
type groupDetailResponse struct {
	Group   groupResponse  `json:"group"`
	Members []userResponse `json:"members"`
}

// CreateGroup はグループ作成を処理する。
// POST /api/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

// RequestJoin は加入申請を処理する。
// POST /api/groups/join-requests
func (h *GroupHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req requestJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	joinReq, err := h.service.RequestJoin(r.Context(), userID, req.InviteCode)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toJoinRequestResponse(joinReq))
}

// MyJoinStatus は自分の加入申請状況を返す。
// GET /api/groups/join-requests/me
func (h *GroupHandler) MyJoinStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	joinReq, err := h.service.GetMyJoinStatus(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJoinRequestResponse(joinReq))
}

// ListPendingRequests は未処理の加入申請一覧を返す。管理者専用。
// GET /api/groups/join-requests
func (h *GroupHandler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	reqs, err := h.service.ListPendingRequests(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]joinRequestResponse, 0, len(reqs))
	for _, req := range reqs {
		res = append(res, toJoinRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, res)
}

// DecideJoinRequest は加入申請の承認・拒否を処理する。管理者専用。
// PUT /api/groups/join-requests/{id}
func (h *GroupHandler) DecideJoinRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	requestID := chi.URLParam(r, "id")

	var req decideJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	joinReq, err := h.service.DecideJoinRequest(r.Context(), userID, requestID, req.Approve)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJoinRequestResponse(joinReq))
}

// RenameGroup はグループ名の変更を処理する。管理者専用。
// PUT /api/groups/name
func (h *GroupHandler) RenameGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	group, err := h.service.RenameGroup(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// MyGroup は所属グループと構成員一覧を返す。
// GET /api/groups/me
func (h *GroupHandler) MyGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	group, members, err := h.service.GetMyGroup(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := groupDetailResponse{
		Group:   toGroupResponse(group),
		Members: make([]userResponse, 0, len(members)),
	}
	for _, m := range members {
		res.Members = append(res.Members, toUserResponse(m))
	}
	writeJSON(w, http.StatusOK, res)
}

// toGroupResponse はmodel.FamilyGroupからAPIレスポンスに変換する。
func toGroupResponse(group *model.FamilyGroup) groupResponse {
	return groupResponse{
		ID:          group.ID,
		Name:        group.Name,
		InviteCode:  group.InviteCode,
		AdminUserID: group.AdminUserID,
		CreatedAt:   group.CreatedAt,
	}
}

// toJoinRequestResponse はmodel.JoinRequestからAPIレスポンスに変換する。
func toJoinRequestResponse(req *model.JoinRequest) joinRequestResponse {
	return joinRequestResponse{
		ID:        req.ID,
		UserID:    req.UserID,
		GroupID:   req.GroupID,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
	}
}
