package intake

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu       sync.Mutex
	sessions []*Session
	err      error
}

func (f *fakeNotifier) SendAppointmentConfirmation(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, s.Clone())
	return f.err
}

type fakeArchiver struct {
	mu      sync.Mutex
	saved   []*Session
	scripts [][]TranscriptMessage
}

func (f *fakeArchiver) SaveIntake(_ context.Context, s *Session, transcript []TranscriptMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s.Clone())
	f.scripts = append(f.scripts, transcript)
	return nil
}

func driveToConfirmed(t *testing.T, svc Service, collectContact bool) string {
	t.Helper()
	ctx := context.Background()

	inputs := []string{"hola", "víctima", "civil", longDescription}
	if collectContact {
		inputs = append(inputs, "juan@example.com", "3001234567")
	}
	inputs = append(inputs, "sí")

	var sessionID string
	for _, input := range inputs {
		resp, err := svc.ProcessMessage(ctx, MessageRequest{SessionID: sessionID, Message: input})
		require.NoError(t, err)
		sessionID = resp.SessionID
	}
	return sessionID
}

func TestProcessMessageRejectsEmpty(t *testing.T) {
	svc := NewService(ServiceConfig{})

	_, err := svc.ProcessMessage(context.Background(), MessageRequest{Message: ""})

	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestProcessMessageAssignsSessionID(t *testing.T) {
	svc := NewService(ServiceConfig{})

	resp, err := svc.ProcessMessage(context.Background(), MessageRequest{Message: "hola"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, StageAwaitingRole, resp.Stage)
	assert.False(t, resp.EndCall)
	assert.NotEmpty(t, resp.Message)
}

func TestProcessMessageResumesSession(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ServiceConfig{})

	first, err := svc.ProcessMessage(ctx, MessageRequest{Message: "hola"})
	require.NoError(t, err)

	second, err := svc.ProcessMessage(ctx, MessageRequest{
		SessionID: first.SessionID,
		Message:   "soy víctima",
	})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, StageAwaitingCategory, second.Stage)
}

func TestConfirmationEmailSentOnce(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(ServiceConfig{
		Engine:   NewEngine(Options{CollectContact: true}),
		Notifier: notifier,
	})

	sessionID := driveToConfirmed(t, svc, true)

	require.Len(t, notifier.sessions, 1)
	sent := notifier.sessions[0]
	assert.Equal(t, "juan@example.com", sent.Email)
	assert.NotNil(t, sent.ConfirmedSlot)

	// Further confirmed-stage chatter must not resend the email.
	_, err := svc.ProcessMessage(context.Background(), MessageRequest{
		SessionID: sessionID,
		Message:   "quería añadir un detalle más sobre mi caso particular",
	})
	require.NoError(t, err)
	assert.Len(t, notifier.sessions, 1)
}

func TestNoEmailNoNotification(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(ServiceConfig{Notifier: notifier})

	driveToConfirmed(t, svc, false)

	assert.Empty(t, notifier.sessions)
}

func TestNotifierFailureDoesNotFailTurn(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := NewService(ServiceConfig{
		Engine:   NewEngine(Options{CollectContact: true}),
		Notifier: notifier,
	})

	driveToConfirmed(t, svc, true)

	assert.Len(t, notifier.sessions, 1)
}

func TestArchiveOnClose(t *testing.T) {
	ctx := context.Background()
	archiver := &fakeArchiver{}
	svc := NewService(ServiceConfig{Archiver: archiver})

	sessionID := driveToConfirmed(t, svc, false)

	resp, err := svc.ProcessMessage(ctx, MessageRequest{SessionID: sessionID, Message: "no, gracias"})
	require.NoError(t, err)
	assert.True(t, resp.EndCall)
	assert.Equal(t, StageClosed, resp.Stage)

	require.Len(t, archiver.saved, 1)
	saved := archiver.saved[0]
	assert.Equal(t, sessionID, saved.ID)
	assert.Equal(t, RoleVictim, saved.Role)
	assert.Equal(t, CategoryCivil, saved.Category)
	assert.NotNil(t, saved.ConfirmedSlot)

	// The session stays around, frozen: a follow-up gets the closed notice.
	resp, err = svc.ProcessMessage(ctx, MessageRequest{SessionID: sessionID, Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, StageClosed, resp.Stage)
	assert.False(t, resp.EndCall)
	assert.Len(t, archiver.saved, 1)
}

func TestTranscriptRecordedPerTurn(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	svc := NewService(ServiceConfig{Transcript: NewTranscriptStore(client)})

	resp, err := svc.ProcessMessage(ctx, MessageRequest{Message: "hola"})
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "hola", history[0].Body)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, resp.Message, history[1].Body)
}

func TestGetHistoryWithoutTranscriptStore(t *testing.T) {
	svc := NewService(ServiceConfig{})

	history, err := svc.GetHistory(context.Background(), "s1")

	require.NoError(t, err)
	assert.Empty(t, history)
}

type recordingMetrics struct {
	mu        sync.Mutex
	messages  int
	confirmed int
}

func (m *recordingMetrics) ObserveMessage(string, string) {
	m.mu.Lock()
	m.messages++
	m.mu.Unlock()
}

func (m *recordingMetrics) ObserveConfirmed() {
	m.mu.Lock()
	m.confirmed++
	m.mu.Unlock()
}

func (m *recordingMetrics) ObserveTurnLatency(float64) {}

func TestMetricsObserved(t *testing.T) {
	metrics := &recordingMetrics{}
	svc := NewService(ServiceConfig{Metrics: metrics})

	driveToConfirmed(t, svc, false)

	assert.Equal(t, 5, metrics.messages)
	assert.Equal(t, 1, metrics.confirmed)
}

// Concurrent messages for one session are serialized: after N parallel turns
// the stored turn count reflects all of them.
func TestConcurrentTurnsSameSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	svc := NewService(ServiceConfig{Sessions: store})

	const turns = 10
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessMessage(ctx, MessageRequest{SessionID: "shared", Message: "¿puede repetir?"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, turns, s.TurnCount)
}
