package emotion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
)

// --- モック定義 ---

type mockEmotionRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.Emotion, error)
	findByUserIDFn  func(ctx context.Context, userID string) (*model.Emotion, error)
	listByGroupIDFn func(ctx context.Context, groupID string) ([]*model.Emotion, error)
	createFn        func(ctx context.Context, emotion *model.Emotion) error
	updateTypeFn    func(ctx context.Context, id string, emotionType model.EmotionType) error
}

func (m *mockEmotionRepo) FindByID(ctx context.Context, id string) (*model.Emotion, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockEmotionRepo) FindByUserID(ctx context.Context, userID string) (*model.Emotion, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockEmotionRepo) ListByGroupID(ctx context.Context, groupID string) ([]*model.Emotion, error) {
	if m.listByGroupIDFn != nil {
		return m.listByGroupIDFn(ctx, groupID)
	}
	return nil, nil
}

func (m *mockEmotionRepo) Create(ctx context.Context, emotion *model.Emotion) error {
	if m.createFn != nil {
		return m.createFn(ctx, emotion)
	}
	return nil
}

func (m *mockEmotionRepo) UpdateType(ctx context.Context, id string, emotionType model.EmotionType) error {
	if m.updateTypeFn != nil {
		return m.updateTypeFn(ctx, id, emotionType)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	updateNicknameFn func(ctx context.Context, id, nickname string) error
	listByGroupIDFn  func(ctx context.Context, groupID string) ([]*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, _ string) (*model.User, error) { return nil, nil }

func (m *mockUserRepo) ExistsByEmail(_ context.Context, _ string) (bool, error) { return false, nil }

func (m *mockUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (m *mockUserRepo) UpdateNickname(ctx context.Context, id, nickname string) error {
	if m.updateNicknameFn != nil {
		return m.updateNicknameFn(ctx, id, nickname)
	}
	return nil
}

func (m *mockUserRepo) UpdateGroup(_ context.Context, _ string, _ *string) error { return nil }

func (m *mockUserRepo) ListByGroupID(ctx context.Context, groupID string) ([]*model.User, error) {
	if m.listByGroupIDFn != nil {
		return m.listByGroupIDFn(ctx, groupID)
	}
	return nil, nil
}

func (m *mockUserRepo) DeleteByID(_ context.Context, _ string) error { return nil }

var _ repository.EmotionRepository = (*mockEmotionRepo)(nil)
var _ repository.UserRepository = (*mockUserRepo)(nil)

// --- テストヘルパー ---

func groupMember(id string) *model.User {
	gid := "group-1"
	return &model.User{ID: id, Name: id, GroupID: &gid}
}

func groupMemberRepo() *mockUserRepo {
	return &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return groupMember(id), nil
		},
	}
}

func newTestService(emotionRepo *mockEmotionRepo, userRepo *mockUserRepo) *Service {
	return NewService(emotionRepo, userRepo, &clock.Fixed{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})
}

func apiErrCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.Code
}

// --- 感情登録 ---

// 感情が登録されることを検証
func TestCreateEmotion(t *testing.T) {
	var created *model.Emotion
	emotionRepo := &mockEmotionRepo{
		createFn: func(_ context.Context, e *model.Emotion) error {
			created = e
			return nil
		},
	}
	svc := newTestService(emotionRepo, groupMemberRepo())

	emotion, err := svc.CreateEmotion(context.Background(), "user-1", model.EmotionHappy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emotion.Type != model.EmotionHappy {
		t.Errorf("type = %q", emotion.Type)
	}
	if emotion.GroupID != "group-1" {
		t.Errorf("group id = %q", emotion.GroupID)
	}
	if created == nil {
		t.Fatal("emotion should be persisted")
	}
}

// 登録済みの場合は二重登録できないことを検証
func TestCreateEmotion_AlreadyExists(t *testing.T) {
	emotionRepo := &mockEmotionRepo{
		findByUserIDFn: func(_ context.Context, userID string) (*model.Emotion, error) {
			return &model.Emotion{ID: "e-1", UserID: userID, Type: model.EmotionCalm}, nil
		},
	}
	svc := newTestService(emotionRepo, groupMemberRepo())

	_, err := svc.CreateEmotion(context.Background(), "user-1", model.EmotionHappy)
	if code := apiErrCode(t, err); code != model.ErrCodeEmotionExists {
		t.Errorf("code = %q, want %q", code, model.ErrCodeEmotionExists)
	}
}

// 未知の感情種別は拒否されることを検証
func TestCreateEmotion_UnknownType(t *testing.T) {
	svc := newTestService(&mockEmotionRepo{}, groupMemberRepo())

	_, err := svc.CreateEmotion(context.Background(), "user-1", model.EmotionType("ecstatic"))
	if code := apiErrCode(t, err); code != model.ErrCodeInvalidRequest {
		t.Errorf("code = %q, want %q", code, model.ErrCodeInvalidRequest)
	}
}

// グループ未所属ユーザーは登録できないことを検証
func TestCreateEmotion_GroupRequired(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
	svc := newTestService(&mockEmotionRepo{}, userRepo)

	_, err := svc.CreateEmotion(context.Background(), "user-1", model.EmotionHappy)
	if code := apiErrCode(t, err); code != model.ErrCodeGroupRequired {
		t.Errorf("code = %q, want %q", code, model.ErrCodeGroupRequired)
	}
}

// --- 感情更新 ---

// 感情種別が更新されることを検証
func TestUpdateMyEmotion(t *testing.T) {
	var updatedType model.EmotionType
	emotionRepo := &mockEmotionRepo{
		findByUserIDFn: func(_ context.Context, userID string) (*model.Emotion, error) {
			return &model.Emotion{ID: "e-1", UserID: userID, Type: model.EmotionSad}, nil
		},
		updateTypeFn: func(_ context.Context, _ string, emotionType model.EmotionType) error {
			updatedType = emotionType
			return nil
		},
	}
	userRepo := groupMemberRepo()
	userRepo.updateNicknameFn = func(_ context.Context, _, _ string) error {
		t.Error("nickname should not change when not requested")
		return nil
	}
	svc := newTestService(emotionRepo, userRepo)

	emotion, err := svc.UpdateMyEmotion(context.Background(), "user-1", model.EmotionCalm, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedType != model.EmotionCalm || emotion.Type != model.EmotionCalm {
		t.Errorf("type = %q, want calm", emotion.Type)
	}
}

// 更新時にニックネームを指定するとあわせて変更されることを検証
func TestUpdateMyEmotion_WithNickname(t *testing.T) {
	emotionRepo := &mockEmotionRepo{
		findByUserIDFn: func(_ context.Context, userID string) (*model.Emotion, error) {
			return &model.Emotion{ID: "e-1", UserID: userID, Type: model.EmotionSad}, nil
		},
	}
	var gotNickname string
	userRepo := groupMemberRepo()
	userRepo.updateNicknameFn = func(_ context.Context, _, nickname string) error {
		gotNickname = nickname
		return nil
	}
	svc := newTestService(emotionRepo, userRepo)

	if _, err := svc.UpdateMyEmotion(context.Background(), "user-1", model.EmotionCalm, " はなちゃん "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotNickname != "はなちゃん" {
		t.Errorf("nickname = %q", gotNickname)
	}
}

// 未登録の感情は更新できないことを検証
func TestUpdateMyEmotion_NotFound(t *testing.T) {
	svc := newTestService(&mockEmotionRepo{}, groupMemberRepo())

	_, err := svc.UpdateMyEmotion(context.Background(), "user-1", model.EmotionCalm, "")
	if code := apiErrCode(t, err); code != model.ErrCodeEmotionNotFound {
		t.Errorf("code = %q, want %q", code, model.ErrCodeEmotionNotFound)
	}
}

// --- 構成員の感情取得 ---

// 同じグループの構成員の感情が取得できることを検証
func TestGetMemberEmotion(t *testing.T) {
	emotionRepo := &mockEmotionRepo{
		findByUserIDFn: func(_ context.Context, userID string) (*model.Emotion, error) {
			return &model.Emotion{ID: "e-2", UserID: userID, Type: model.EmotionTired}, nil
		},
	}
	svc := newTestService(emotionRepo, groupMemberRepo())

	emotion, err := svc.GetMemberEmotion(context.Background(), "user-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emotion.Type != model.EmotionTired {
		t.Errorf("type = %q", emotion.Type)
	}
}

// 他グループのユーザーの感情は取得できないことを検証
func TestGetMemberEmotion_OtherGroup(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			if id == "stranger" {
				gid := "other-group"
				return &model.User{ID: id, GroupID: &gid}, nil
			}
			return groupMember(id), nil
		},
	}
	svc := newTestService(&mockEmotionRepo{}, userRepo)

	_, err := svc.GetMemberEmotion(context.Background(), "user-1", "stranger")
	if code := apiErrCode(t, err); code != model.ErrCodeNotSameGroup {
		t.Errorf("code = %q, want %q", code, model.ErrCodeNotSameGroup)
	}
}

// --- グループ感情一覧 ---

// 未登録の構成員がプレースホルダーとして含まれることを検証
func TestListGroupEmotions_IncludesPlaceholders(t *testing.T) {
	userRepo := groupMemberRepo()
	userRepo.listByGroupIDFn = func(_ context.Context, _ string) ([]*model.User, error) {
		return []*model.User{groupMember("user-1"), groupMember("user-2"), groupMember("user-3")}, nil
	}
	emotionRepo := &mockEmotionRepo{
		listByGroupIDFn: func(_ context.Context, _ string) ([]*model.Emotion, error) {
			return []*model.Emotion{
				{ID: "e-1", UserID: "user-1", Type: model.EmotionHappy},
				{ID: "e-3", UserID: "user-3", Type: model.EmotionAnxious},
			}, nil
		},
	}
	svc := newTestService(emotionRepo, userRepo)

	result, err := svc.ListGroupEmotions(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("member count = %d, want 3", len(result))
	}
	if result[0].Emotion == nil || result[0].Emotion.Type != model.EmotionHappy {
		t.Error("user-1 should have happy emotion")
	}
	if result[1].Emotion != nil {
		t.Error("user-2 should be a placeholder")
	}
	if result[2].Emotion == nil || result[2].Emotion.Type != model.EmotionAnxious {
		t.Error("user-3 should have anxious emotion")
	}
}

// --- 構成員のニックネーム変更 ---

// 同じグループの構成員のニックネームを変更できることを検証
func TestUpdateMemberNickname(t *testing.T) {
	var gotID, gotNickname string
	userRepo := groupMemberRepo()
	userRepo.updateNicknameFn = func(_ context.Context, id, nickname string) error {
		gotID, gotNickname = id, nickname
		return nil
	}
	svc := newTestService(&mockEmotionRepo{}, userRepo)

	if err := svc.UpdateMemberNickname(context.Background(), "user-1", "user-2", "おにいちゃん"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "user-2" || gotNickname != "おにいちゃん" {
		t.Errorf("updated %q to %q", gotID, gotNickname)
	}
}

// 他グループの構成員のニックネームは変更できないことを検証
func TestUpdateMemberNickname_OtherGroup(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			if id == "stranger" {
				gid := "other-group"
				return &model.User{ID: id, GroupID: &gid}, nil
			}
			return groupMember(id), nil
		},
	}
	svc := newTestService(&mockEmotionRepo{}, userRepo)

	err := svc.UpdateMemberNickname(context.Background(), "user-1", "stranger", "だれか")
	if code := apiErrCode(t, err); code != model.ErrCodeNotSameGroup {
		t.Errorf("code = %q, want %q", code, model.ErrCodeNotSameGroup)
	}
}
