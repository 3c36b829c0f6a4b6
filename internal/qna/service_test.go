package qna

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/famnote/internal/clock"
	"github.com/hitoshi/famnote/internal/model"
	"github.com/hitoshi/famnote/internal/repository"
	"github.com/hitoshi/famnote/internal/security"
)

// --- モック定義 ---

type mockQuestionRepo struct {
	findByIDFn             func(ctx context.Context, id int64) (*model.Question, error)
	findByActivationDateFn func(ctx context.Context, date time.Time) (*model.Question, error)
	findFirstUnactivatedFn func(ctx context.Context) (*model.Question, error)
	listBetweenFn          func(ctx context.Context, start, end time.Time) ([]*model.Question, error)
	activateFn             func(ctx context.Context, id int64, date time.Time) error
}

func (m *mockQuestionRepo) FindByID(ctx context.Context, id int64) (*model.Question, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockQuestionRepo) FindByActivationDate(ctx context.Context, date time.Time) (*model.Question, error) {
	if m.findByActivationDateFn != nil {
		return m.findByActivationDateFn(ctx, date)
	}
	return nil, nil
}

func (m *mockQuestionRepo) FindFirstUnactivated(ctx context.Context) (*model.Question, error) {
	if m.findFirstUnactivatedFn != nil {
		return m.findFirstUnactivatedFn(ctx)
	}
	return nil, nil
}

func (m *mockQuestionRepo) ListByActivationDateBetween(ctx context.Context, start, end time.Time) ([]*model.Question, error) {
	if m.listBetweenFn != nil {
		return m.listBetweenFn(ctx, start, end)
	}
	return nil, nil
}

func (m *mockQuestionRepo) Activate(ctx context.Context, id int64, date time.Time) error {
	if m.activateFn != nil {
		return m.activateFn(ctx, id, date)
	}
	return nil
}

type mockAnswerRepo struct {
	findByQuestionAndUserFn   func(ctx context.Context, questionID int64, userID string) (*model.Answer, error)
	listByQuestionIDFn        func(ctx context.Context, questionID int64) ([]*model.Answer, error)
	createFn                  func(ctx context.Context, answer *model.Answer) error
	updateTextFn              func(ctx context.Context, id int64, text string, updatedAt time.Time) error
	deleteByQuestionAndUserFn func(ctx context.Context, questionID int64, userID string) error
}

func (m *mockAnswerRepo) FindByQuestionAndUser(ctx context.Context, questionID int64, userID string) (*model.Answer, error) {
	if m.findByQuestionAndUserFn != nil {
		return m.findByQuestionAndUserFn(ctx, questionID, userID)
	}
	return nil, nil
}

func (m *mockAnswerRepo) ListByQuestionID(ctx context.Context, questionID int64) ([]*model.Answer, error) {
	if m.listByQuestionIDFn != nil {
		return m.listByQuestionIDFn(ctx, questionID)
	}
	return nil, nil
}

func (m *mockAnswerRepo) Create(ctx context.Context, answer *model.Answer) error {
	if m.createFn != nil {
		return m.createFn(ctx, answer)
	}
	answer.ID = 1
	return nil
}

func (m *mockAnswerRepo) UpdateText(ctx context.Context, id int64, text string, updatedAt time.Time) error {
	if m.updateTextFn != nil {
		return m.updateTextFn(ctx, id, text, updatedAt)
	}
	return nil
}

func (m *mockAnswerRepo) DeleteByQuestionAndUser(ctx context.Context, questionID int64, userID string) error {
	if m.deleteByQuestionAndUserFn != nil {
		return m.deleteByQuestionAndUserFn(ctx, questionID, userID)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.User, error)
	listByGroupIDFn func(ctx context.Context, groupID string) ([]*model.User, error)
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

func (m *mockUserRepo) UpdateNickname(_ context.Context, _, _ string) error { return nil }

func (m *mockUserRepo) UpdateGroup(_ context.Context, _ string, _ *string) error { return nil }

func (m *mockUserRepo) ListByGroupID(ctx context.Context, groupID string) ([]*model.User, error) {
	if m.listByGroupIDFn != nil {
		return m.listByGroupIDFn(ctx, groupID)
	}
	return nil, nil
}

func (m *mockUserRepo) DeleteByID(_ context.Context, _ string) error { return nil }

// --- compile-time interface checks ---
var _ repository.QuestionRepository = (*mockQuestionRepo)(nil)
var _ repository.AnswerRepository = (*mockAnswerRepo)(nil)
var _ repository.UserRepository = (*mockUserRepo)(nil)

// --- テストヘルパー ---

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation(clock.DefaultTimezone)
	if err != nil {
		panic(err)
	}
	return loc
}()

func at(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, testLoc)
}

func datePtr(t time.Time) *time.Time { return &t }

func groupMember(id string) *model.User {
	gid := "group-1"
	return &model.User{ID: id, Name: id, GroupID: &gid}
}

func approvedUserRepo() *mockUserRepo {
	return &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return groupMember(id), nil
		},
	}
}

func newTestService(questionRepo *mockQuestionRepo, answerRepo *mockAnswerRepo, userRepo *mockUserRepo, now time.Time) *Service {
	return NewService(questionRepo, answerRepo, userRepo, security.NewContentSanitizer(), &clock.Fixed{T: now})
}

// activeQuestionRepo は指定日付に活性化された質問1件を返すリポジトリを作る。
func activeQuestionRepo(q *model.Question) *mockQuestionRepo {
	return &mockQuestionRepo{
		findByIDFn: func(_ context.Context, id int64) (*model.Question, error) {
			if q != nil && q.ID == id {
				return q, nil
			}
			return nil, nil
		},
		findByActivationDateFn: func(_ context.Context, date time.Time) (*model.Question, error) {
			if q != nil && q.ActivationDate != nil && model.SameDate(*q.ActivationDate, date) {
				return q, nil
			}
			return nil, nil
		},
	}
}

func apiErrCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.Code
}

// --- GetTodayQuestion ---

// 活性化済みの質問が「今日の質問」として取得できることを検証
func TestGetTodayQuestion_ReturnsActiveQuestion(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "家族に一番感謝していることは？", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	svc := newTestService(activeQuestionRepo(question), &mockAnswerRepo{}, approvedUserRepo(), now)

	got, err := svc.GetTodayQuestion(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Question.ID != 1 {
		t.Errorf("question ID = %d, want 1", got.Question.ID)
	}
	if got.Answered {
		t.Error("expected Answered = false before answering")
	}
}

// 回答済みフラグが立つことを検証
func TestGetTodayQuestion_AnsweredFlag(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	answerRepo := &mockAnswerRepo{
		findByQuestionAndUserFn: func(_ context.Context, _ int64, _ string) (*model.Answer, error) {
			return &model.Answer{ID: 10, QuestionID: 1, UserID: "user-1"}, nil
		},
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, approvedUserRepo(), now)

	got, err := svc.GetTodayQuestion(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Answered {
		t.Error("expected Answered = true")
	}
}

// 質問が未活性化の場合にエラーとなることを検証
func TestGetTodayQuestion_NotPrepared(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	svc := newTestService(&mockQuestionRepo{}, &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.GetTodayQuestion(context.Background(), "user-1")
	if code := apiErrCode(t, err); code != model.ErrCodeQuestionNotPrepared {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeQuestionNotPrepared)
	}
}

// グループ未所属ユーザーが拒否されることを検証
func TestGetTodayQuestion_RequiresGroup(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id}, nil // GroupID = nil
		},
	}
	svc := newTestService(&mockQuestionRepo{}, &mockAnswerRepo{}, userRepo, now)

	_, err := svc.GetTodayQuestion(context.Background(), "user-1")
	if code := apiErrCode(t, err); code != model.ErrCodeGroupRequired {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeGroupRequired)
	}
}

// --- 論理日境界 ---

// 午前5時の境界をまたぐ「今日」の判定を検証
func TestLogicalDayBoundary(t *testing.T) {
	// 6/1に活性化された質問
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}

	tests := []struct {
		name    string
		now     time.Time
		isToday bool
	}{
		{name: "当日の正午", now: at(2025, 6, 1, 12, 0, 0), isToday: true},
		{name: "翌日の04:59:59はまだ前日扱い", now: at(2025, 6, 2, 4, 59, 59), isToday: true},
		{name: "翌日の05:00:00で日付が切り替わる", now: at(2025, 6, 2, 5, 0, 0), isToday: false},
		{name: "当日の04:59:59はまだ前々日扱い", now: at(2025, 6, 1, 4, 59, 59), isToday: false},
		{name: "当日の05:00:00から当日扱い", now: at(2025, 6, 1, 5, 0, 0), isToday: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(activeQuestionRepo(question), &mockAnswerRepo{}, approvedUserRepo(), tt.now)

			_, err := svc.GetTodayQuestion(context.Background(), "user-1")
			if tt.isToday && err != nil {
				t.Errorf("expected question to be today's, got error %v", err)
			}
			if !tt.isToday {
				if code := apiErrCode(t, err); code != model.ErrCodeQuestionNotPrepared {
					t.Errorf("error code = %q, want %q", code, model.ErrCodeQuestionNotPrepared)
				}
			}
		})
	}
}

// --- GetQuestionDetail ---

// 当日の質問詳細が自分の回答前は閲覧できないことを検証
func TestGetQuestionDetail_GateBeforeAnswering(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	svc := newTestService(activeQuestionRepo(question), &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.GetQuestionDetail(context.Background(), "user-1", 1)
	if code := apiErrCode(t, err); code != model.ErrCodeAnswerRequired {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeAnswerRequired)
	}
}

// 回答後は当日の質問詳細が閲覧でき、未回答者はプレースホルダーになることを検証
func TestGetQuestionDetail_VisibleAfterAnswering(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}

	ownAnswer := &model.Answer{ID: 10, QuestionID: 1, UserID: "user-1", Text: "回答済み"}
	answerRepo := &mockAnswerRepo{
		findByQuestionAndUserFn: func(_ context.Context, _ int64, userID string) (*model.Answer, error) {
			if userID == "user-1" {
				return ownAnswer, nil
			}
			return nil, nil
		},
		listByQuestionIDFn: func(_ context.Context, _ int64) ([]*model.Answer, error) {
			return []*model.Answer{ownAnswer}, nil
		},
	}
	userRepo := approvedUserRepo()
	userRepo.listByGroupIDFn = func(_ context.Context, _ string) ([]*model.User, error) {
		return []*model.User{groupMember("user-1"), groupMember("user-2")}, nil
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, userRepo, now)

	detail, err := svc.GetQuestionDetail(context.Background(), "user-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.State != model.QuestionActive {
		t.Errorf("state = %q, want %q", detail.State, model.QuestionActive)
	}
	if len(detail.Members) != 2 {
		t.Fatalf("member count = %d, want 2", len(detail.Members))
	}
	if detail.Members[0].Answer == nil {
		t.Error("expected user-1 to have an answer")
	}
	if detail.Members[1].Answer != nil {
		t.Error("expected user-2 to be an unanswered placeholder")
	}
}

// 過去の質問は未回答でも閲覧できることを検証
func TestGetQuestionDetail_PastQuestionAlwaysVisible(t *testing.T) {
	now := at(2025, 6, 10, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}

	userRepo := approvedUserRepo()
	userRepo.listByGroupIDFn = func(_ context.Context, _ string) ([]*model.User, error) {
		return []*model.User{groupMember("user-1")}, nil
	}
	svc := newTestService(activeQuestionRepo(question), &mockAnswerRepo{}, userRepo, now)

	detail, err := svc.GetQuestionDetail(context.Background(), "user-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.State != model.QuestionPast {
		t.Errorf("state = %q, want %q", detail.State, model.QuestionPast)
	}
}

// 未活性化・未知の質問は存在しない扱いになることを検証
func TestGetQuestionDetail_UnknownOrPendingQuestion(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	pending := &model.Question{ID: 5, Text: "q"} // ActivationDate = nil

	questionRepo := &mockQuestionRepo{
		findByIDFn: func(_ context.Context, id int64) (*model.Question, error) {
			if id == 5 {
				return pending, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(questionRepo, &mockAnswerRepo{}, approvedUserRepo(), now)

	for _, id := range []int64{5, 999} {
		_, err := svc.GetQuestionDetail(context.Background(), "user-1", id)
		if code := apiErrCode(t, err); code != model.ErrCodeQuestionNotFound {
			t.Errorf("id %d: error code = %q, want %q", id, code, model.ErrCodeQuestionNotFound)
		}
	}
}

// --- SubmitAnswer ---

// 当日の質問に回答できることを検証
func TestSubmitAnswer_Succeeds(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}

	var created *model.Answer
	answerRepo := &mockAnswerRepo{
		createFn: func(_ context.Context, answer *model.Answer) error {
			answer.ID = 10
			created = answer
			return nil
		},
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, approvedUserRepo(), now)

	answer, err := svc.SubmitAnswer(context.Background(), "user-1", 1, "家族みんなで囲む食卓")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected answer to be persisted")
	}
	if answer.CreatedAt != now {
		t.Errorf("created at = %v, want %v", answer.CreatedAt, now)
	}
}

// 当日の質問以外への回答が拒否されることを検証
func TestSubmitAnswer_RejectsNonActiveQuestion(t *testing.T) {
	now := at(2025, 6, 10, 12, 0, 0)
	// 6/10の活性化質問はID=2。ID=1は過去の質問。
	active := &model.Question{ID: 2, Text: "q2", ActivationDate: datePtr(at(2025, 6, 10, 0, 0, 0))}
	svc := newTestService(activeQuestionRepo(active), &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.SubmitAnswer(context.Background(), "user-1", 1, "遅れた回答")
	if code := apiErrCode(t, err); code != model.ErrCodeNotActiveQuestion {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeNotActiveQuestion)
	}
}

// 活性化質問が存在しない日の回答が拒否されることを検証
func TestSubmitAnswer_NoActiveQuestion(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	svc := newTestService(&mockQuestionRepo{}, &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.SubmitAnswer(context.Background(), "user-1", 1, "回答")
	if code := apiErrCode(t, err); code != model.ErrCodeQuestionNotPrepared {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeQuestionNotPrepared)
	}
}

// 二重回答が拒否されることを検証（1人1質問1回答の不変条件）
func TestSubmitAnswer_RejectsDuplicate(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	answerRepo := &mockAnswerRepo{
		findByQuestionAndUserFn: func(_ context.Context, _ int64, _ string) (*model.Answer, error) {
			return &model.Answer{ID: 10, QuestionID: 1, UserID: "user-1"}, nil
		},
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, approvedUserRepo(), now)

	_, err := svc.SubmitAnswer(context.Background(), "user-1", 1, "2回目の回答")
	if code := apiErrCode(t, err); code != model.ErrCodeAnswerExists {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeAnswerExists)
	}
}

// 空の回答本文が拒否されることを検証
func TestSubmitAnswer_RejectsEmptyText(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	svc := newTestService(activeQuestionRepo(question), &mockAnswerRepo{}, approvedUserRepo(), now)

	// サニタイズでタグが全て除去されると空になる入力
	for _, text := range []string{"", "   ", "<script>alert(1)</script>"} {
		_, err := svc.SubmitAnswer(context.Background(), "user-1", 1, text)
		if code := apiErrCode(t, err); code != model.ErrCodeInvalidRequest {
			t.Errorf("text %q: error code = %q, want %q", text, code, model.ErrCodeInvalidRequest)
		}
	}
}

// --- EditAnswer / DeleteAnswer ---

// 同一論理日内であれば回答を編集できることを検証
func TestEditAnswer_WithinWindow(t *testing.T) {
	now := at(2025, 6, 1, 23, 30, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	answerRepo := &mockAnswerRepo{
		findByQuestionAndUserFn: func(_ context.Context, _ int64, _ string) (*model.Answer, error) {
			return &model.Answer{ID: 10, QuestionID: 1, UserID: "user-1", Text: "旧回答", CreatedAt: at(2025, 6, 1, 8, 0, 0)}, nil
		},
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, approvedUserRepo(), now)

	answer, err := svc.EditAnswer(context.Background(), "user-1", 1, "新しい回答")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Text != "新しい回答" {
		t.Errorf("text = %q, want %q", answer.Text, "新しい回答")
	}
	if answer.UpdatedAt == nil || !answer.UpdatedAt.Equal(now) {
		t.Errorf("updated at = %v, want %v", answer.UpdatedAt, now)
	}
}

// 深夜0時をまたいでも午前5時までは編集できることを検証
func TestEditAnswer_WindowExtendsPastMidnight(t *testing.T) {
	// 6/1の20時に作成された回答を、6/2の午前4時（論理日はまだ6/1）に編集
	now := at(2025, 6, 2, 4, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	answerRepo := &mockAnswerRepo{
		findByQuestionAndUserFn: func(_ context.Context, _ int64, _ string) (*model.Answer, error) {
			return &model.Answer{ID: 10, QuestionID: 1, UserID: "user-1", Text: "旧回答", CreatedAt: at(2025, 6, 1, 20, 0, 0)}, nil
		},
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, approvedUserRepo(), now)

	if _, err := svc.EditAnswer(context.Background(), "user-1", 1, "深夜の修正"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// 論理日が変わった回答の編集が拒否されることを検証
func TestEditAnswer_WindowClosed(t *testing.T) {
	// 6/1の回答を6/2の正午（論理日6/2）に編集しようとする。
	// ただし質問自体が過去になっているためNotActiveQuestionが先に返る。
	// 編集窓の判定自体は、活性化日付が残っている場合に備えて
	// 回答作成論理日の比較でも保護されている。
	now := at(2025, 6, 2, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	svc := newTestService(activeQuestionRepo(question), &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.EditAnswer(context.Background(), "user-1", 1, "遅すぎる修正")
	if code := apiErrCode(t, err); code != model.ErrCodeQuestionNotPrepared {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeQuestionNotPrepared)
	}
}

// 前日の論理日に作成された回答が当日の質問に残っている場合の編集拒否を検証
func TestEditAnswer_StaleAnswerRejected(t *testing.T) {
	// 質問は当日活性化のままだが、回答は前論理日の04:30（= 5/31扱い）に作成されている
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	answerRepo := &mockAnswerRepo{
		findByQuestionAndUserFn: func(_ context.Context, _ int64, _ string) (*model.Answer, error) {
			return &model.Answer{ID: 10, QuestionID: 1, UserID: "user-1", CreatedAt: at(2025, 6, 1, 4, 30, 0)}, nil
		},
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, approvedUserRepo(), now)

	_, err := svc.EditAnswer(context.Background(), "user-1", 1, "修正")
	if code := apiErrCode(t, err); code != model.ErrCodeAnswerWindowClosed {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeAnswerWindowClosed)
	}
}

// 回答が存在しない場合の編集が拒否されることを検証
func TestEditAnswer_NoAnswer(t *testing.T) {
	now := at(2025, 6, 1, 12, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}
	svc := newTestService(activeQuestionRepo(question), &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.EditAnswer(context.Background(), "user-1", 1, "修正")
	if code := apiErrCode(t, err); code != model.ErrCodeAnswerNotFound {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeAnswerNotFound)
	}
}

// 同一論理日内であれば回答を削除できることを検証
func TestDeleteAnswer_WithinWindow(t *testing.T) {
	now := at(2025, 6, 1, 18, 0, 0)
	question := &model.Question{ID: 1, Text: "q", ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))}

	deleted := false
	answerRepo := &mockAnswerRepo{
		findByQuestionAndUserFn: func(_ context.Context, _ int64, _ string) (*model.Answer, error) {
			return &model.Answer{ID: 10, QuestionID: 1, UserID: "user-1", CreatedAt: at(2025, 6, 1, 8, 0, 0)}, nil
		},
		deleteByQuestionAndUserFn: func(_ context.Context, questionID int64, userID string) error {
			if questionID == 1 && userID == "user-1" {
				deleted = true
			}
			return nil
		},
	}
	svc := newTestService(activeQuestionRepo(question), answerRepo, approvedUserRepo(), now)

	questionID, err := svc.DeleteAnswer(context.Background(), "user-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if questionID != 1 {
		t.Errorf("question ID = %d, want 1", questionID)
	}
	if !deleted {
		t.Error("expected answer to be deleted")
	}
}

// 過去の質問の回答削除が拒否されることを検証
func TestDeleteAnswer_PastQuestionRejected(t *testing.T) {
	now := at(2025, 6, 10, 12, 0, 0)
	active := &model.Question{ID: 5, Text: "q5", ActivationDate: datePtr(at(2025, 6, 10, 0, 0, 0))}
	svc := newTestService(activeQuestionRepo(active), &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.DeleteAnswer(context.Background(), "user-1", 1)
	if code := apiErrCode(t, err); code != model.ErrCodeNotActiveQuestion {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeNotActiveQuestion)
	}
}

// --- GetMonthlyQuestions ---

// 月間一覧が期間指定でリポジトリに委譲されることを検証
func TestGetMonthlyQuestions_QueriesWholeMonth(t *testing.T) {
	now := at(2025, 6, 15, 12, 0, 0)

	var gotStart, gotEnd time.Time
	questionRepo := &mockQuestionRepo{
		listBetweenFn: func(_ context.Context, start, end time.Time) ([]*model.Question, error) {
			gotStart, gotEnd = start, end
			return []*model.Question{
				{ID: 1, ActivationDate: datePtr(at(2025, 6, 1, 0, 0, 0))},
				{ID: 2, ActivationDate: datePtr(at(2025, 6, 2, 0, 0, 0))},
			}, nil
		},
	}
	svc := newTestService(questionRepo, &mockAnswerRepo{}, approvedUserRepo(), now)

	questions, err := svc.GetMonthlyQuestions(context.Background(), "user-1", 2025, time.June)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("question count = %d, want 2", len(questions))
	}
	if gotStart.Day() != 1 || gotStart.Month() != time.June {
		t.Errorf("start = %v, want first day of June", gotStart)
	}
	if gotEnd.Day() != 30 || gotEnd.Month() != time.June {
		t.Errorf("end = %v, want last day of June", gotEnd)
	}
}

// 不正な年月指定が拒否されることを検証
func TestGetMonthlyQuestions_RejectsInvalidMonth(t *testing.T) {
	now := at(2025, 6, 15, 12, 0, 0)
	svc := newTestService(&mockQuestionRepo{}, &mockAnswerRepo{}, approvedUserRepo(), now)

	_, err := svc.GetMonthlyQuestions(context.Background(), "user-1", 2025, time.Month(13))
	if code := apiErrCode(t, err); code != model.ErrCodeInvalidRequest {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeInvalidRequest)
	}
}
