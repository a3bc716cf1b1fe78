package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tusabogados/intake-platform/pkg/logging"
)

// ErrEmptyMessage is returned when a request reaches the service without
// text. Transports reject this upstream with a client error; the engine never
// sees an empty message.
var ErrEmptyMessage = errors.New("intake: message required")

// Service is the conversation surface the transports talk to.
type Service interface {
	ProcessMessage(ctx context.Context, req MessageRequest) (*Response, error)
	GetHistory(ctx context.Context, sessionID string) ([]TranscriptMessage, error)
}

// MessageRequest is a single caller turn. An empty SessionID starts a new
// conversation.
type MessageRequest struct {
	SessionID string
	Message   string
}

// Response is the DTO handed back to the transport layer.
type Response struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"response"`
	Stage     Stage     `json:"stage"`
	EndCall   bool      `json:"end_call,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfirmationNotifier sends the booking confirmation email.
type ConfirmationNotifier interface {
	SendAppointmentConfirmation(ctx context.Context, s *Session) error
}

// Archiver persists finished intakes for the back office.
type Archiver interface {
	SaveIntake(ctx context.Context, s *Session, transcript []TranscriptMessage) error
}

// Metrics records per-turn observability counters.
type Metrics interface {
	ObserveMessage(intent, stage string)
	ObserveConfirmed()
	ObserveTurnLatency(seconds float64)
}

// IntakeService resolves sessions, serializes turns per session id, runs the
// engine, and fans results out to transcript, metrics, notification, and
// archive collaborators. All collaborators except the session store are
// optional.
type IntakeService struct {
	engine     *Engine
	sessions   SessionStore
	transcript *TranscriptStore
	notifier   ConfirmationNotifier
	archiver   Archiver
	metrics    Metrics
	logger     *logging.Logger
	locks      *sessionLocks
}

// ServiceConfig wires the service's collaborators.
type ServiceConfig struct {
	Engine     *Engine
	Sessions   SessionStore
	Transcript *TranscriptStore
	Notifier   ConfirmationNotifier
	Archiver   Archiver
	Metrics    Metrics
	Logger     *logging.Logger
}

// NewService builds the intake service.
func NewService(cfg ServiceConfig) *IntakeService {
	if cfg.Engine == nil {
		cfg.Engine = NewEngine(Options{})
	}
	if cfg.Sessions == nil {
		cfg.Sessions = NewMemorySessionStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &IntakeService{
		engine:     cfg.Engine,
		sessions:   cfg.Sessions,
		transcript: cfg.Transcript,
		notifier:   cfg.Notifier,
		archiver:   cfg.Archiver,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		locks:      newSessionLocks(),
	}
}

// ProcessMessage handles one caller turn end to end. At most one turn is in
// flight per session id: the per-session lock serializes concurrent requests
// for the same conversation while distinct sessions proceed in parallel.
func (s *IntakeService) ProcessMessage(ctx context.Context, req MessageRequest) (*Response, error) {
	if len(req.Message) == 0 {
		return nil, ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	start := time.Now()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = NewSession(sessionID)
	}

	prevStage := sess.Stage
	intent := s.engine.Classify(req.Message)

	reply, endCall := s.engine.Advance(sess, req.Message)
	sess.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	s.appendTranscript(ctx, sessionID, "user", req.Message, prevStage)
	s.appendTranscript(ctx, sessionID, "assistant", reply, sess.Stage)

	if s.metrics != nil {
		s.metrics.ObserveMessage(string(intent), string(sess.Stage))
		s.metrics.ObserveTurnLatency(time.Since(start).Seconds())
	}

	if prevStage != StageConfirmed && sess.Stage == StageConfirmed {
		s.onConfirmed(ctx, sess)
	}
	if endCall {
		s.onClosed(ctx, sess)
	}

	return &Response{
		SessionID: sessionID,
		Message:   reply,
		Stage:     sess.Stage,
		EndCall:   endCall,
		Timestamp: sess.UpdatedAt,
	}, nil
}

// GetHistory returns the stored transcript for a session.
func (s *IntakeService) GetHistory(ctx context.Context, sessionID string) ([]TranscriptMessage, error) {
	return s.transcript.List(ctx, sessionID, 100)
}

func (s *IntakeService) appendTranscript(ctx context.Context, sessionID, role, body string, stage Stage) {
	if err := s.transcript.Append(ctx, sessionID, TranscriptMessage{
		Role:  role,
		Body:  body,
		Stage: stage,
	}); err != nil {
		s.logger.Warn("intake: transcript append failed", "session_id", sessionID, "error", err)
	}
}

// onConfirmed runs the booking side effects. Both are best effort: a failed
// email or archive write never fails the caller's turn.
func (s *IntakeService) onConfirmed(ctx context.Context, sess *Session) {
	if s.metrics != nil {
		s.metrics.ObserveConfirmed()
	}
	if s.notifier != nil && sess.Email != "" {
		if err := s.notifier.SendAppointmentConfirmation(ctx, sess); err != nil {
			s.logger.Error("intake: confirmation email failed", "session_id", sess.ID, "error", err)
		}
	}
}

// onClosed archives the finished intake and releases the session record.
func (s *IntakeService) onClosed(ctx context.Context, sess *Session) {
	if s.archiver != nil {
		transcript, err := s.transcript.List(ctx, sess.ID, 0)
		if err != nil {
			s.logger.Warn("intake: transcript load for archive failed", "session_id", sess.ID, "error", err)
		}
		if err := s.archiver.SaveIntake(ctx, sess, transcript); err != nil {
			s.logger.Error("intake: archive failed", "session_id", sess.ID, "error", err)
		}
	}
}
