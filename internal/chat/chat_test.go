package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

func TestMain(m *testing.M) {
	// The genai dependency tree starts an opencensus worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type memoryStore struct {
	mu       sync.Mutex
	convs    []models.Conversation
	addErr   error
	queryErr error
	pingErr  error
}

func (s *memoryStore) AddConversation(_ context.Context, c models.Conversation) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return models.Conversation{}, s.addErr
	}
	c.ID = fmt.Sprintf("c%d", len(s.convs)+1)
	s.convs = append(s.convs, c)
	return c, nil
}

func (s *memoryStore) GetConversations(_ context.Context, f storage.ConversationFilter) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []models.Conversation
	for _, c := range s.convs {
		if (f.UserID == "" || c.UserID == f.UserID) && (f.SessionID == "" || c.SessionID == f.SessionID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *memoryStore) Ping(context.Context) error { return s.pingErr }

type fakeGenerator struct {
	reply Reply
	err   error
}

func (g fakeGenerator) Generate(ctx context.Context, _ string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	return g.reply, g.err
}

func (g fakeGenerator) Model() string { return "fake-model" }

func TestSendSimulated(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(nil, store)

	resp, err := svc.Send(context.Background(), Request{Text: "hello"})
	require.NoError(t, err)

	assert.True(t, resp.Simulated)
	assert.Equal(t, constants.SimulatedModelName, resp.Model)
	assert.Equal(t, SimulatedReply("hello"), resp.Reply)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, constants.ChatThreadPrefix+resp.SessionID, resp.ThreadID)
	assert.Equal(t, EstimateTokens("hello", resp.Reply), resp.TokensUsed)
	assert.Equal(t, 5, resp.CharacterCount)

	require.Len(t, store.convs, 1)
	saved := store.convs[0]
	assert.Equal(t, constants.DefaultChatUserID, saved.UserID)
	assert.Equal(t, resp.Reply, saved.Response)
	assert.True(t, saved.Simulated)
}

func TestSendWithModel(t *testing.T) {
	store := &memoryStore{}
	gen := fakeGenerator{reply: Reply{Text: "Keep going! 🐾", TokensUsed: 42, Model: "gemini-x"}}
	svc := NewService(gen, store)

	resp, err := svc.Send(context.Background(), Request{Text: "any tips?", SessionID: "s1", UserID: "u1"})
	require.NoError(t, err)
	assert.False(t, resp.Simulated)
	assert.Equal(t, "Keep going! 🐾", resp.Reply)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, "gemini-x", resp.Model)
	assert.Equal(t, "thread_s1", resp.ThreadID)
	assert.Equal(t, "u1", store.convs[0].UserID)
}

func TestSendFallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "quota", err: fmt.Errorf("%w: 429 quota exceeded", ErrQuotaExhausted), want: quotaReply},
		{name: "rate", err: ErrRateLimited, want: rateReply},
		{name: "other", err: errors.New("boom"), want: failureReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(fakeGenerator{err: tt.err}, &memoryStore{})
			resp, err := svc.Send(context.Background(), Request{Text: "hi"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Reply)
			assert.True(t, resp.Simulated)
			assert.Equal(t, "fake-model", resp.Model)
			assert.Equal(t, EstimateTokens("hi", tt.want), resp.TokensUsed)
		})
	}
}

func TestSendCancelledContextFallsBack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	svc := NewService(fakeGenerator{reply: Reply{Text: "never"}}, &memoryStore{})
	resp, err := svc.Send(ctx, Request{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, failureReply, resp.Reply)
}

func TestSendValidation(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(nil, store)
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), Request{Text: text})
		assert.True(t, apperrors.IsValidation(err), "text %q: got %v", text, err)
	}
	assert.Empty(t, store.convs)
}

func TestSendSurvivesStoreFailure(t *testing.T) {
	svc := NewService(nil, &memoryStore{addErr: errors.New("db down")})
	resp, err := svc.Send(context.Background(), Request{Text: "still there?"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Reply)
}

func TestHistory(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(nil, store)
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := range 3 {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		_, err := svc.Send(context.Background(), Request{Text: fmt.Sprintf("m%d", i), SessionID: "s1"})
		require.NoError(t, err)
	}
	_, err := svc.Send(context.Background(), Request{Text: "other", SessionID: "s2", UserID: "someone"})
	require.NoError(t, err)

	convs, err := svc.History(context.Background(), "", "s1", 2)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "m2", convs[0].Message)
	assert.Equal(t, "m1", convs[1].Message)

	all, err := svc.History(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	store.queryErr = errors.New("gone")
	_, err = svc.History(context.Background(), "", "", 0)
	assert.True(t, apperrors.IsStorage(err))
}

func TestInfo(t *testing.T) {
	info := NewService(nil, &memoryStore{}).Info(context.Background())
	assert.Equal(t, ModeSimulated, info.Mode)
	assert.True(t, info.StoreConnected)

	info = NewService(fakeGenerator{}, &memoryStore{pingErr: errors.New("refused")}).Info(context.Background())
	assert.Equal(t, ModeModel, info.Mode)
	assert.Equal(t, "fake-model", info.Model)
	assert.False(t, info.StoreConnected)
	assert.Equal(t, "refused", info.StoreError)
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify(errors.New("Error 429, Message: You exceeded your current quota")), ErrQuotaExhausted)
	assert.ErrorIs(t, classify(errors.New("Error 429, Status: RESOURCE_EXHAUSTED")), ErrRateLimited)
	err := classify(errors.New("Error 500"))
	assert.NotErrorIs(t, err, ErrQuotaExhausted)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestSimulatedReplyVariesWithLength(t *testing.T) {
	assert.Equal(t, simulatedReplies[0], SimulatedReply(""))
	assert.Equal(t, simulatedReplies[3], SimulatedReply("abc"))
	assert.Equal(t, simulatedReplies[1], SimulatedReply("123456789"))
}

func TestNewGenAIGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenAIGenerator(context.Background(), "", "")
	assert.Error(t, err)
}
