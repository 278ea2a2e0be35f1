package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	commandTimeout = 5 * time.Second
	maxMessageSize = 4096

	// DefaultSendBuffer is used when a session is created with a
	// non-positive buffer size.
	DefaultSendBuffer = 32
)

// Session is one WebSocket connection of an authenticated user.
type Session struct {
	id     string
	userID string
	email  string

	conn       *websocket.Conn
	hub        *Hub
	authorizer NoteAuthorizer

	send      chan models.Event
	done      chan struct{}
	closeOnce sync.Once

	// notes is guarded by hub.mu.
	notes map[string]struct{}

	logger *logger.Logger
}

// SessionConfig carries the identity and collaborators of a new session.
type SessionConfig struct {
	ID         string
	UserID     string
	Email      string
	SendBuffer int
	Hub        *Hub
	Authorizer NoteAuthorizer
	Logger     *logger.Logger
}

// NewSession wraps an upgraded connection. conn may be nil in tests that
// only exercise hub delivery.
func NewSession(conn *websocket.Conn, cfg SessionConfig) *Session {
	buffer := cfg.SendBuffer
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Session{
		id:         cfg.ID,
		userID:     cfg.UserID,
		email:      models.NormalizeEmail(cfg.Email),
		conn:       conn,
		hub:        cfg.Hub,
		authorizer: cfg.Authorizer,
		send:       make(chan models.Event, buffer),
		done:       make(chan struct{}),
		notes:      make(map[string]struct{}),
		logger:     log,
	}
}

// ID returns the session id announced to the client in the session frame.
func (s *Session) ID() string {
	return s.id
}

// Serve registers the session, announces its id and runs the read loop
// until the peer disconnects, ctx is done or the hub is closed. It always
// leaves every joined channel before returning.
func (s *Session) Serve(ctx context.Context) {
	s.hub.register(s)
	defer s.Close()

	s.enqueue(models.Event{Type: models.EventSession, SessionID: s.id})

	go s.writePump()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	s.readPump(ctx)
}

// Close leaves all channels and tears the connection down. It is safe to
// call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.hub != nil {
			s.hub.unregister(s)
		}
		close(s.done)
		if s.conn != nil {
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			_ = s.conn.Close()
		}
	})
}

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// enqueue never blocks. It returns false when the send buffer is full or the
// session is closed.
func (s *Session) enqueue(event models.Event) bool {
	if s.closed() {
		return false
	}

	select {
	case s.send <- event:
		return true
	default:
		return false
	}
}

type command struct {
	Type   models.EventType `json:"type"`
	NoteID string           `json:"noteId"`
}

func (s *Session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd command
		if err := s.conn.ReadJSON(&cmd); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.logger.Debug().Err(err).Str("session_id", s.id).Msg("session read loop finished")
			}
			return
		}
		s.handle(ctx, cmd)
	}
}

func (s *Session) handle(ctx context.Context, cmd command) {
	switch cmd.Type {
	case models.CommandJoinNote:
		s.join(ctx, cmd.NoteID)
	case models.CommandLeaveNote:
		if cmd.NoteID == "" {
			s.replyError(cmd.NoteID, "noteId is required")
			return
		}
		s.hub.Leave(cmd.NoteID, s)
		s.enqueue(models.Event{Type: models.EventLeft, NoteID: cmd.NoteID})
	default:
		s.replyError(cmd.NoteID, "unknown command: "+string(cmd.Type))
	}
}

func (s *Session) join(ctx context.Context, noteID string) {
	if noteID == "" {
		s.replyError(noteID, "noteId is required")
		return
	}

	if s.authorizer != nil {
		cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		if err := s.authorizer.AuthorizeSubscribe(cmdCtx, s.userID, s.email, noteID); err != nil {
			s.logger.Debug().Err(err).
				Str("func", "Session.join").
				Str("session_id", s.id).
				Str("note_id", noteID).
				Msg("join rejected")
			s.replyError(noteID, err.Error())
			return
		}
	}

	if !s.hub.Join(noteID, s) {
		return
	}
	s.enqueue(models.Event{Type: models.EventJoined, NoteID: noteID})
}

func (s *Session) replyError(noteID, message string) {
	s.enqueue(models.Event{Type: models.EventError, NoteID: noteID, Message: message})
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case event := <-s.send:
			event.Origin, event.OriginUserID = "", ""
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(event); err != nil {
				s.logger.Debug().Err(err).Str("session_id", s.id).Msg("session write failed")
				s.Close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.Close()
				return
			}
		}
	}
}
