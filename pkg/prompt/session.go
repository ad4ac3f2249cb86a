package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/kyogre/pkg/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	// ErrCancelled is returned when the user replies with the cancel keyword.
	ErrCancelled = errors.New("session cancelled")

	// ErrTimeout is returned when the user does not reply in time.
	ErrTimeout = errors.New("timed out waiting for a reply")

	// ErrSessionActive is returned when the user already has an open session.
	ErrSessionActive = errors.New("user already has an active session")

	// ErrClosed is returned when the session has been closed.
	ErrClosed = errors.New("session closed")
)

// CancelKeyword aborts the whole session whenever it is sent as a reply.
const CancelKeyword = "cancel"

// Message is an inbound chat message.
type Message struct {
	AuthorID  string
	ChannelID string

	// GuildID is empty for direct messages.
	GuildID string

	Content string
}

// Sender delivers direct messages to users.
type Sender interface {
	SendDirect(ctx context.Context, userID, content string) error
}

// Options configures the sessions a broker opens.
type Options struct {
	// Timeout is how long Ask waits for a reply. Zero waits forever.
	Timeout time.Duration

	// Interval is the minimum time between two outbound messages of a session.
	Interval time.Duration

	// Burst is how many outbound messages may be sent back to back.
	Burst int
}

// DefaultOptions are the options used when none are configured.
var DefaultOptions = Options{
	Timeout:  10 * time.Minute,
	Interval: 500 * time.Millisecond,
	Burst:    5,
}

// Broker routes inbound direct messages to the session waiting on their author.
type Broker struct {
	l      *slog.Logger
	sender Sender
	opts   Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewBroker creates a new broker.
func NewBroker(l *slog.Logger, sender Sender, opts Options) *Broker {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &Broker{
		l:        l,
		sender:   sender,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Open opens a session with a user. A user can only have one open session.
func (b *Broker) Open(userID string) (*Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[userID]; ok {
		return nil, ErrSessionActive
	}

	limit := rate.Inf
	if b.opts.Interval > 0 {
		limit = rate.Every(b.opts.Interval)
	}

	id := uuid.NewString()
	s := &Session{
		id:      id,
		userID:  userID,
		broker:  b,
		inbox:   make(chan Message, 1),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(limit, b.opts.Burst),
		timeout: b.opts.Timeout,
		l: b.l.With(
			slog.String(logging.KeySessionID, id),
			slog.String(logging.KeyUserID, userID),
		),
	}
	b.sessions[userID] = s
	return s, nil
}

// Active reports whether the user has an open session.
func (b *Broker) Active(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.sessions[userID]
	return ok
}

// Dispatch hands a message to the session of its author. Messages sent in a guild
// or by users without a session are ignored. It never blocks and reports whether
// the message was delivered.
func (b *Broker) Dispatch(m Message) bool {
	if m.GuildID != "" {
		return false
	}

	b.mu.Lock()
	s, ok := b.sessions[m.AuthorID]
	b.mu.Unlock()
	if !ok {
		return false
	}

	select {
	case s.inbox <- m:
		return true
	default:
		// A reply is already queued for the current prompt.
		return false
	}
}

func (b *Broker) remove(s *Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sessions[s.userID] == s {
		delete(b.sessions, s.userID)
	}
}

// Session is a question and answer exchange with one user over direct messages.
type Session struct {
	id      string
	userID  string
	broker  *Broker
	inbox   chan Message
	limiter *rate.Limiter
	timeout time.Duration
	l       *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// ID is the correlation ID of the session.
func (s *Session) ID() string {
	return s.id
}

// UserID is the user answering the prompts.
func (s *Session) UserID() string {
	return s.userID
}

// Tell sends a message that does not expect a reply.
func (s *Session) Tell(ctx context.Context, content string) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("error waiting to send: %w", err)
	}
	if err := s.broker.sender.SendDirect(ctx, s.userID, content); err != nil {
		return fmt.Errorf("error sending direct message: %w", err)
	}
	return nil
}

// Ask sends the prompt and waits for the next direct message of the user.
// Exactly one reply is consumed. The reply is returned trimmed.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	// Anything sent before this prompt was not an answer to it.
	select {
	case <-s.inbox:
	default:
	}

	if err := s.Tell(ctx, prompt); err != nil {
		return "", err
	}

	var timeout <-chan time.Time
	if s.timeout > 0 {
		t := time.NewTimer(s.timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case m := <-s.inbox:
		reply := strings.TrimSpace(m.Content)
		if strings.EqualFold(reply, CancelKeyword) {
			s.l.Debug("Session cancelled by user")
			return "", ErrCancelled
		}
		return reply, nil
	case <-timeout:
		s.l.Debug("Session timed out waiting for a reply")
		return "", ErrTimeout
	case <-s.done:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close ends the session and frees the user to open another one.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.broker.remove(s)
	})
}
