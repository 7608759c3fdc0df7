package service

import (
	"context"
	"sync"
	"testing"

	"chatbot-be/internal/entity"
	"chatbot-be/internal/pkg/testdb"
	"chatbot-be/internal/repository/specification"
	"chatbot-be/internal/repository/unitofwork"
	"chatbot-be/pkg/events"
	"chatbot-be/pkg/extraction"
	"chatbot-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubExtractor struct {
	mu           sync.Mutex
	summary      extraction.Summary
	profile      extraction.Profile
	summaryCalls int
	profileCalls int
	lastOptions  llm.Options
}

func (s *stubExtractor) ExtractSummary(_ context.Context, _ []llm.Message, opts ...llm.Option) extraction.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaryCalls++
	s.lastOptions = applyOptions(opts)
	return s.summary
}

func (s *stubExtractor) ExtractProfile(_ context.Context, _ []llm.Message, opts ...llm.Option) extraction.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileCalls++
	s.lastOptions = applyOptions(opts)
	return s.profile
}

type stubChatProvider struct {
	reply   string
	err     error
	calls   int
	history []llm.Message
	options llm.Options
}

func (s *stubChatProvider) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	s.history = history
	s.options = applyOptions(opts)
	return s.reply, s.err
}

func (s *stubChatProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: entity.RoleUser, Content: prompt}}, opts...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func applyOptions(opts []llm.Option) llm.Options {
	o := llm.Options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type fixture struct {
	db         *gorm.DB
	uowFactory unitofwork.RepositoryFactory
	publisher  *recordingPublisher
	user       *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.Open(t)
	f := &fixture{
		db:         db,
		uowFactory: unitofwork.NewRepositoryFactory(db),
		publisher:  &recordingPublisher{},
	}
	f.user = f.createUser(t, "asha@example.com")
	return f
}

func (f *fixture) createUser(t *testing.T, email string) *entity.User {
	t.Helper()

	user := &entity.User{Id: uuid.New(), Name: "Asha", Email: email, PasswordHash: "x"}
	uow := f.uowFactory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

func (f *fixture) profile(t *testing.T, userID uuid.UUID) *entity.PersonalInfo {
	t.Helper()

	uow := f.uowFactory.NewUnitOfWork(context.Background())
	info, err := uow.PersonalInfoRepository().FindOne(context.Background(), specification.UserOwnedBy{UserID: userID})
	require.NoError(t, err)
	return info
}
