// Package group は家族グループの作成・加入承認フローのビジネスロジックを提供する。
//
// グループへの加入は「招待コードで申請 → 管理者が承認」の2段階で行う。
// 承認されるまでusers.group_idはNULLのままで、グループ必須の機能は使えない。
package group

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
)

// inviteCodeLength は招待コードの文字数。
const inviteCodeLength = 8

// inviteCodeAlphabet は招待コードに使う文字集合。
// 読み間違えやすい文字（0/O、1/I/l）は除外する。
const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Service は家族グループに関するビジネスロジックを提供する。
type Service struct {
	groupRepo   repository.GroupRepository
	joinReqRepo repository.JoinRequestRepository
	userRepo    repository.UserRepository
	clock       clock.Clock
}

// NewService はServiceを生成する。
func NewService(
	groupRepo repository.GroupRepository,
	joinReqRepo repository.JoinRequestRepository,
	userRepo repository.UserRepository,
	clk clock.Clock,
) *Service {
	return &Service{
		groupRepo:   groupRepo,
		joinReqRepo: joinReqRepo,
		userRepo:    userRepo,
		clock:       clk,
	}
}

// CreateGroup は家族グループを作成し、作成者を管理者として所属させる。
// 既にグループに所属している場合、既にグループを作成済みの場合はエラーを返す。
func (s *Service) CreateGroup(ctx context.Context, userID, name string) (*model.FamilyGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("グループ名は必須です")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Approved() {
		return nil, model.NewAlreadyInGroupError()
	}

	existing, err := s.groupRepo.FindByAdminUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find group by admin: %w", err)
	}
	if existing != nil {
		return nil, model.NewGroupAlreadyCreatedError()
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	group := &model.FamilyGroup{
		ID:          uuid.New().String(),
		Name:        name,
		InviteCode:  code,
		AdminUserID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// 管理者は承認フローなしで即座に所属する
	if err := s.userRepo.UpdateGroup(ctx, userID, &group.ID); err != nil {
		return nil, fmt.Errorf("failed to attach admin to group: %w", err)
	}

	slog.Info("family group created",
		slog.String("group_id", group.ID),
		slog.String("admin_user_id", userID),
	)
	return group, nil
}

// RequestJoin は招待コードでグループへの加入を申請する。
// 承認されるまで所属は変わらない。
func (s *Service) RequestJoin(ctx context.Context, userID, inviteCode string) (*model.JoinRequest, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if inviteCode == "" {
		return nil, model.NewInvalidRequestError("招待コードは必須です")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Approved() {
		return nil, model.NewAlreadyInGroupError()
	}

	group, err := s.groupRepo.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find group by invite code: %w", err)
	}
	if group == nil {
		return nil, model.NewInviteCodeNotFoundError(inviteCode)
	}

	now := s.clock.Now()
	req := &model.JoinRequest{
		ID:         uuid.New().String(),
		UserID:     userID,
		GroupID:    group.ID,
		InviteCode: inviteCode,
		Status:     model.JoinStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.joinReqRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	slog.Info("join request created",
		slog.String("request_id", req.ID),
		slog.String("group_id", group.ID),
		slog.String("user_id", userID),
	)
	return req, nil
}

// GetMyJoinStatus は自分の最新の加入申請を返す。
func (s *Service) GetMyJoinStatus(ctx context.Context, userID string) (*model.JoinRequest, error) {
	req, err := s.joinReqRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find join request: %w", err)
	}
	if req == nil {
		return nil, model.NewJoinRequestNotFoundError()
	}
	return req, nil
}

// ListPendingRequests は管理者が自グループ宛の未処理申請一覧を取得する。
func (s *Service) ListPendingRequests(ctx context.Context, adminUserID string) ([]*model.JoinRequest, error) {
	group, err := s.requireAdminGroup(ctx, adminUserID)
	if err != nil {
		return nil, err
	}

	reqs, err := s.joinReqRepo.ListByGroupID(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}

	pending := make([]*model.JoinRequest, 0, len(reqs))
	for _, req := range reqs {
		if req.Status == model.JoinStatusPending {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

// DecideJoinRequest は管理者が加入申請を承認または拒否する。
// 承認時は申請者をグループに所属させる。未処理以外の申請は処理できない。
func (s *Service) DecideJoinRequest(ctx context.Context, adminUserID, requestID string, approve bool) (*model.JoinRequest, error) {
	group, err := s.requireAdminGroup(ctx, adminUserID)
	if err != nil {
		return nil, err
	}

	req, err := s.joinReqRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find join request: %w", err)
	}
	if req == nil || req.GroupID != group.ID {
		return nil, model.NewJoinRequestNotFoundError()
	}
	if req.Status != model.JoinStatusPending {
		return nil, model.NewInvalidJoinStatusError(string(req.Status))
	}

	status := model.JoinStatusRejected
	if approve {
		status = model.JoinStatusApproved
	}
	if err := s.joinReqRepo.UpdateStatus(ctx, req.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update join request: %w", err)
	}
	req.Status = status

	if approve {
		if err := s.userRepo.UpdateGroup(ctx, req.UserID, &group.ID); err != nil {
			return nil, fmt.Errorf("failed to attach user to group: %w", err)
		}
	}

	slog.Info("join request decided",
		slog.String("request_id", req.ID),
		slog.String("status", string(status)),
		slog.String("admin_user_id", adminUserID),
	)
	return req, nil
}

// RenameGroup は管理者がグループ名を変更する。
func (s *Service) RenameGroup(ctx context.Context, adminUserID, name string) (*model.FamilyGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("グループ名は必須です")
	}

	group, err := s.requireAdminGroup(ctx, adminUserID)
	if err != nil {
		return nil, err
	}

	if err := s.groupRepo.UpdateName(ctx, group.ID, name); err != nil {
		return nil, fmt.Errorf("failed to rename group: %w", err)
	}
	group.Name = name
	return group, nil
}

// GetMyGroup は自分の所属グループと構成員一覧を返す。
func (s *Service) GetMyGroup(ctx context.Context, userID string) (*model.FamilyGroup, []*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.Approved() {
		return nil, nil, model.NewGroupRequiredError()
	}

	group, err := s.groupRepo.FindByID(ctx, *user.GroupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, nil, model.NewGroupNotFoundError()
	}

	members, err := s.userRepo.ListByGroupID(ctx, group.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}
	return group, members, nil
}

// findUser はユーザーを取得する。見つからない場合はエラーを返す。
func (s *Service) findUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// requireAdminGroup は管理者として作成したグループを要求する。
func (s *Service) requireAdminGroup(ctx context.Context, adminUserID string) (*model.FamilyGroup, error) {
	group, err := s.groupRepo.FindByAdminUserID(ctx, adminUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find group by admin: %w", err)
	}
	if group == nil {
		return nil, model.NewNotGroupAdminError()
	}
	return group, nil
}

// generateInviteCode は招待コードを生成する。
func generateInviteCode() (string, error) {
	b := make([]byte, inviteCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	for i := range b {
		b[i] = inviteCodeAlphabet[int(b[i])%len(inviteCodeAlphabet)]
	}
	return string(b), nil
}
