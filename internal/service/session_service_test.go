package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"chatbot-be/internal/dto"
	"chatbot-be/internal/entity"
	"chatbot-be/internal/model"
	"chatbot-be/internal/pkg/apperror"
	"chatbot-be/internal/pkg/logger"
	"chatbot-be/internal/repository/memory"
	"chatbot-be/pkg/events"
	"chatbot-be/pkg/extraction"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(f *fixture, ex *stubExtractor) (ISessionService, *memory.ProfileCache) {
	cache := memory.NewProfileCache(time.Minute)
	svc := NewSessionService(f.uowFactory, ex, cache, f.publisher, logger.NewNopLogger(), 24*time.Hour)
	return svc, cache
}

func saveReq(userID uuid.UUID, finalize bool, contents ...string) *dto.SaveSessionRequest {
	msgs := make([]dto.MessageDto, len(contents))
	for i, c := range contents {
		role := entity.RoleUser
		if i%2 == 1 {
			role = entity.RoleAssistant
		}
		msgs[i] = dto.MessageDto{Role: role, Content: c}
	}
	return &dto.SaveSessionRequest{Messages: msgs, UserId: userID, GenerateSummary: &finalize}
}

func (f *fixture) backdateSession(t *testing.T, id uuid.UUID, age time.Duration) {
	t.Helper()
	err := f.db.Model(&model.ChatSession{}).Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().UTC().Add(-age)).Error
	require.NoError(t, err)
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func TestSaveSession_SecondSaveKeepsSessionID(t *testing.T) {
	f := newFixture(t)
	svc, _ := newSessionService(f, &stubExtractor{})
	ctx := context.Background()

	first, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "hello"))
	require.NoError(t, err)
	assert.Equal(t, msgSessionSaved, first.Message)

	second, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "hello", "hi there", "how are you"))
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, second.SessionId)
	assert.Equal(t, msgSessionUpdated, second.Message)
	assert.Nil(t, second.Summary)

	active, err := svc.GetActiveSession(ctx, f.user.Id)
	require.NoError(t, err)
	require.NotNil(t, active.SessionId)
	assert.Equal(t, first.SessionId, *active.SessionId)
	assert.Len(t, active.Messages, 3)
	assert.Equal(t, int64(1), f.count(t, &model.ChatSession{}))
}

func TestSaveSession_ActiveWindow(t *testing.T) {
	cases := []struct {
		name     string
		age      time.Duration
		sameSave bool
	}{
		{name: "updated an hour ago", age: time.Hour, sameSave: true},
		{name: "updated 25 hours ago", age: 25 * time.Hour, sameSave: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			svc, _ := newSessionService(f, &stubExtractor{})
			ctx := context.Background()

			first, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "hello"))
			require.NoError(t, err)
			f.backdateSession(t, first.SessionId, tc.age)

			second, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "hello again"))
			require.NoError(t, err)

			if tc.sameSave {
				assert.Equal(t, first.SessionId, second.SessionId)
			} else {
				assert.NotEqual(t, first.SessionId, second.SessionId)
				assert.Equal(t, msgSessionSaved, second.Message)
			}
		})
	}
}

func TestGetActiveSession_IgnoresStaleSession(t *testing.T) {
	f := newFixture(t)
	svc, _ := newSessionService(f, &stubExtractor{})
	ctx := context.Background()

	saved, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "hello"))
	require.NoError(t, err)
	f.backdateSession(t, saved.SessionId, 25*time.Hour)

	active, err := svc.GetActiveSession(ctx, f.user.Id)
	require.NoError(t, err)
	assert.Nil(t, active.SessionId)
	assert.Empty(t, active.Messages)
}

func TestSaveSession_FinalizeAttachesOneSummary(t *testing.T) {
	f := newFixture(t)
	ex := &stubExtractor{
		summary: extraction.Summary{Text: "User practiced greetings."},
		profile: extraction.Profile{Profession: "Delivery boy", PersonalInfo: "Lives in Pune"},
	}
	svc, cache := newSessionService(f, ex)
	ctx := context.Background()

	first, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "hello"))
	require.NoError(t, err)

	final, err := svc.SaveSession(ctx, saveReq(f.user.Id, true, "hello", "hi", "I deliver food"))
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, final.SessionId)
	assert.Equal(t, msgSessionFinalized, final.Message)
	require.NotNil(t, final.Summary)
	assert.Equal(t, "User practiced greetings.", final.Summary.Summary)
	assert.Equal(t, "Delivery boy", final.PersonalInfo[entity.ProfileKeyProfession])
	assert.Equal(t, "Lives in Pune", final.PersonalInfo[entity.ProfileKeyPersonalInfo])

	assert.Equal(t, int64(1), f.count(t, &model.Summary{}))

	active, err := svc.GetActiveSession(ctx, f.user.Id)
	require.NoError(t, err)
	assert.Nil(t, active.SessionId)

	detail, err := svc.GetSession(ctx, f.user.Id, final.SessionId)
	require.NoError(t, err)
	require.NotNil(t, detail.Summary)
	assert.Equal(t, "User practiced greetings.", detail.Summary.Summary)
	assert.Len(t, detail.Messages, 3)

	stored := f.profile(t, f.user.Id)
	require.NotNil(t, stored)
	assert.Equal(t, "Delivery boy", stored.Profession())

	cached, ok := cache.Get(ctx, f.user.Id)
	require.True(t, ok)
	assert.Equal(t, "Lives in Pune", cached.Text())

	assert.Equal(t, []string{events.TypeSessionFinalized, events.TypeProfileUpdated}, f.publisher.types())

	// A save after logout starts a fresh session.
	next, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "new day"))
	require.NoError(t, err)
	assert.NotEqual(t, final.SessionId, next.SessionId)
}

func TestSaveSession_DoubleLogoutCreatesFinalizedSession(t *testing.T) {
	f := newFixture(t)
	ex := &stubExtractor{summary: extraction.Summary{Text: "short chat"}}
	svc, _ := newSessionService(f, ex)
	ctx := context.Background()

	first, err := svc.SaveSession(ctx, saveReq(f.user.Id, true, "bye"))
	require.NoError(t, err)
	assert.Equal(t, msgSessionSaved, first.Message)

	second, err := svc.SaveSession(ctx, saveReq(f.user.Id, true, "bye"))
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionId, second.SessionId)
	assert.Equal(t, msgSessionSaved, second.Message)

	assert.Equal(t, int64(2), f.count(t, &model.ChatSession{}))
	assert.Equal(t, int64(2), f.count(t, &model.Summary{}))
	assert.Equal(t, 2, ex.summaryCalls)
}

func TestSaveSession_ProfileMergeKeepsEarlierValues(t *testing.T) {
	f := newFixture(t)
	ex := &stubExtractor{}
	svc, _ := newSessionService(f, ex)
	ctx := context.Background()

	ex.profile = extraction.Profile{Profession: "Nurse"}
	_, err := svc.SaveSession(ctx, saveReq(f.user.Id, true, "I am a nurse"))
	require.NoError(t, err)

	ex.profile = extraction.Profile{PersonalInfo: "Works night shifts"}
	_, err = svc.SaveSession(ctx, saveReq(f.user.Id, true, "I work nights"))
	require.NoError(t, err)

	ex.profile = extraction.Profile{Degraded: true}
	_, err = svc.SaveSession(ctx, saveReq(f.user.Id, true, "..."))
	require.NoError(t, err)

	stored := f.profile(t, f.user.Id)
	require.NotNil(t, stored)
	assert.Equal(t, "Nurse", stored.Profession())
	assert.Equal(t, "Works night shifts", stored.Text())
	assert.Equal(t, int64(1), f.count(t, &model.PersonalInfo{}))
}

func TestSaveSession_DegradedSummaryIsStored(t *testing.T) {
	f := newFixture(t)
	ex := &stubExtractor{
		summary: extraction.Summary{Text: extraction.SummaryFailed, Degraded: true},
		profile: extraction.Profile{Degraded: true},
	}
	svc, _ := newSessionService(f, ex)

	res, err := svc.SaveSession(context.Background(), saveReq(f.user.Id, true, "hello"))
	require.NoError(t, err)
	assert.Equal(t, extraction.SummaryFailed, res.Summary.Summary)
	assert.Equal(t, int64(1), f.count(t, &model.Summary{}))
	assert.Equal(t, int64(0), f.count(t, &model.PersonalInfo{}))
	assert.Equal(t, []string{events.TypeSessionFinalized}, f.publisher.types())
}

func TestSaveSession_FinalizeRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ex := &stubExtractor{
		summary: extraction.Summary{Text: "User practiced greetings."},
		profile: extraction.Profile{Profession: "Delivery boy"},
	}
	svc, cache := newSessionService(f, ex)
	ctx := context.Background()

	require.NoError(t, f.db.Migrator().DropTable(&model.PersonalInfo{}))

	res, err := svc.SaveSession(ctx, saveReq(f.user.Id, true, "hello", "hi"))
	require.Error(t, err)
	assert.Nil(t, res)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindInternal, appErr.Kind)

	assert.Equal(t, int64(0), f.count(t, &model.ChatSession{}))
	assert.Equal(t, int64(0), f.count(t, &model.Summary{}))
	assert.Empty(t, f.publisher.types())
	_, ok := cache.Get(ctx, f.user.Id)
	assert.False(t, ok)
}

func TestSaveSession_GenerateSummaryDefaultsToTrue(t *testing.T) {
	f := newFixture(t)
	ex := &stubExtractor{summary: extraction.Summary{Text: "done"}}
	svc, _ := newSessionService(f, ex)

	req := saveReq(f.user.Id, false, "hello")
	req.GenerateSummary = nil

	res, err := svc.SaveSession(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 1, ex.summaryCalls)
}

// Two saves racing for the same user are not serialized per user. With
// SQLite's single connection they happen to run one after another; a
// multi-connection database may produce two active sessions.
func TestSaveSession_ConcurrentSavesForOneUser(t *testing.T) {
	f := newFixture(t)
	svc, _ := newSessionService(f, &stubExtractor{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SaveSession(ctx, saveReq(f.user.Id, false, "racing"))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	sessions := f.count(t, &model.ChatSession{})
	assert.GreaterOrEqual(t, sessions, int64(1))
	assert.LessOrEqual(t, sessions, int64(2))
}

func TestUpdateSession(t *testing.T) {
	f := newFixture(t)
	svc, _ := newSessionService(f, &stubExtractor{})
	ctx := context.Background()
	other := f.createUser(t, "ravi@example.com")

	saved, err := svc.SaveSession(ctx, saveReq(f.user.Id, false, "hello"))
	require.NoError(t, err)

	update := &dto.UpdateSessionRequest{Messages: []dto.MessageDto{
		{Role: entity.RoleUser, Content: "hello"},
		{Role: entity.RoleAssistant, Content: "hi!"},
	}}

	t.Run("owner", func(t *testing.T) {
		res, err := svc.UpdateSession(ctx, f.user.Id, saved.SessionId, update)
		require.NoError(t, err)
		assert.Equal(t, msgSessionUpdated, res.Message)

		detail, err := svc.GetSession(ctx, f.user.Id, saved.SessionId)
		require.NoError(t, err)
		assert.Len(t, detail.Messages, 2)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := svc.UpdateSession(ctx, other.Id, saved.SessionId, update)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.UpdateSession(ctx, f.user.Id, uuid.New(), update)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestListSessions(t *testing.T) {
	f := newFixture(t)
	ex := &stubExtractor{summary: extraction.Summary{Text: "first chat"}}
	svc, _ := newSessionService(f, ex)
	ctx := context.Background()
	other := f.createUser(t, "ravi@example.com")

	_, err := svc.SaveSession(ctx, saveReq(f.user.Id, true, "one"))
	require.NoError(t, err)
	_, err = svc.SaveSession(ctx, saveReq(f.user.Id, false, "two"))
	require.NoError(t, err)
	_, err = svc.SaveSession(ctx, saveReq(other.Id, false, "not mine"))
	require.NoError(t, err)

	res, err := svc.ListSessions(ctx, f.user.Id)
	require.NoError(t, err)
	require.Len(t, res.Sessions, 2)

	summarized := 0
	for _, s := range res.Sessions {
		if s.Summary != nil {
			summarized++
			assert.Equal(t, "first chat", s.Summary.Summary)
		}
	}
	assert.Equal(t, 1, summarized)

	_, err = svc.GetSession(ctx, other.Id, res.Sessions[0].Id)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
