package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/session"
)

// FallbackReply is shown to the user when the chat API fails.
const FallbackReply = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// SessionStore is the part of session.FileStore the service needs.
type SessionStore interface {
	New() *session.Session
	Get(id string) (*session.Session, error)
	Save(s *session.Session) error
	Delete(id string) error
}

// Request is one user message with the client's view of the quiz.
type Request struct {
	Message         string              `json:"message"`
	SessionID       string              `json:"session_id,omitempty"`
	Results         json.RawMessage     `json:"results,omitempty"`
	ScreenContext   string              `json:"screen_context,omitempty"`
	CurrentQuestion *QuestionContext    `json:"current_question,omitempty"`
	UserAnswers     footprint.AnswerSet `json:"user_answers,omitempty"`
}

// Reply is what the client displays.
type Reply struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Service runs chat turns against a Completer, keeping history in a
// SessionStore.
type Service struct {
	client     Completer
	store      SessionStore
	engine     *footprint.Engine
	maxHistory int
	timeout    time.Duration
	now        func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEngine lets the service compute results from user_answers when the
// client sends none.
func WithEngine(e *footprint.Engine) ServiceOption {
	return func(s *Service) { s.engine = e }
}

// WithMaxHistory bounds the messages kept per session.
func WithMaxHistory(n int) ServiceOption {
	return func(s *Service) { s.maxHistory = n }
}

// WithTimeout bounds each call to the completions API.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

// NewService creates a chat service.
func NewService(client Completer, store SessionStore, opts ...ServiceOption) *Service {
	s := &Service{
		client:     client,
		store:      store,
		maxHistory: 20,
		timeout:    30 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reply answers req. Unknown, expired or malformed session ids start a
// new session whose id is returned. When the chat API fails the reply
// carries FallbackReply and the error wraps ErrUpstream.
func (s *Service) Reply(ctx context.Context, req Request) (Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	log := logging.ComponentLogger(*logging.FromContext(ctx), "chat")

	sess := s.load(req.SessionID)
	if results := s.results(req); len(results) > 0 {
		sess.Results = results
	}

	messages := make([]Message, 0, len(sess.History)+2)
	messages = append(messages, Message{
		Role: "system",
		Content: BuildSystemPrompt(PromptContext{
			Screen:   req.ScreenContext,
			Question: req.CurrentQuestion,
			Answers:  req.UserAnswers,
			Results:  sess.Results,
		}),
	})
	for _, m := range sess.History {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, Message{Role: session.RoleUser, Content: message})

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.client.Complete(callCtx, messages)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sess.ID).Msg("chat completion failed")
		return Reply{Success: false, Message: FallbackReply, SessionID: sess.ID},
			fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	now := s.now()
	sess.Append(session.RoleUser, message, now, s.maxHistory)
	sess.Append(session.RoleAssistant, answer, now, s.maxHistory)
	if saveErr := s.store.Save(sess); saveErr != nil {
		log.Error().Err(saveErr).Str("session_id", sess.ID).Msg("saving chat session")
	}

	log.Debug().Str("session_id", sess.ID).Int("history", len(sess.History)).Msg("chat reply")
	return Reply{Success: true, Message: answer, SessionID: sess.ID}, nil
}

// Forget drops a session.
func (s *Service) Forget(id string) error {
	return s.store.Delete(id)
}

func (s *Service) load(id string) *session.Session {
	if id != "" {
		if sess, err := s.store.Get(id); err == nil {
			return sess
		}
	}
	return s.store.New()
}

// results prefers what the client sent and otherwise scores the answers.
// Only the aggregate view is kept, so per-answer contributions never reach
// the session store.
func (s *Service) results(req Request) json.RawMessage {
	raw := req.Results
	if len(raw) == 0 || isJSONNull(raw) {
		raw = s.scoreAnswers(req.UserAnswers)
	}
	return aggregateResults(raw)
}

func (s *Service) scoreAnswers(answers footprint.AnswerSet) json.RawMessage {
	if s.engine == nil || len(answers) == 0 {
		return nil
	}
	rs, err := s.engine.Calculate(answers)
	if err != nil {
		return nil
	}
	data, err := json.Marshal(rs)
	if err != nil {
		return nil
	}
	return data
}

// aggregateResults reduces a serialized ResultSet to the category and total
// figures the prompt describes.
func aggregateResults(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var rv resultsView
	if err := json.Unmarshal(raw, &rv); err != nil || len(rv.Results) == 0 {
		return nil
	}
	data, err := json.Marshal(rv)
	if err != nil {
		return nil
	}
	return data
}

func isJSONNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
