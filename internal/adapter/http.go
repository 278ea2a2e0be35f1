package adapter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/go-resty/resty/v2"
)

const (
	defaultRequestTimeout = 15 * time.Second

	notePath  = "/api/notes/{id}"
	sessionID = "X-Session-ID"
)

type httpNotesClient struct {
	client *resty.Client

	mu        sync.RWMutex
	token     string
	sessionID string

	logger *logger.Logger
}

// NewHTTPNotesClient builds a [NotesClient] for cfg.BaseURL. A base URL
// without a scheme is treated as http.
func NewHTTPNotesClient(cfg config.Adapter, logger *logger.Logger) (NotesClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &httpNotesClient{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpNotesClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpNotesClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpNotesClient) SetSessionID(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessionID = strings.TrimSpace(id)
}

func (h *httpNotesClient) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	var created models.Note
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(note).
		SetResult(&created).
		Post("/api/notes")

	return created, h.check("create note", resp, err)
}

func (h *httpNotesClient) GetNote(ctx context.Context, noteID string) (models.Note, error) {
	var note models.Note
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", noteID).
		SetResult(&note).
		Get(notePath)

	return note, h.check("get note", resp, err)
}

func (h *httpNotesClient) ListMine(ctx context.Context) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	resp, err := h.authedRequest(ctx).
		SetResult(&notes).
		Get("/api/notes/mine")
	if err = h.check("list notes", resp, err); err != nil {
		return nil, err
	}

	return notes, nil
}

func (h *httpNotesClient) UpdateNote(ctx context.Context, update models.NoteUpdate) (models.Note, error) {
	var note models.Note
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", update.NoteID).
		SetBody(update).
		SetResult(&note).
		Put(notePath)

	return note, h.check("update note", resp, err)
}

func (h *httpNotesClient) TogglePin(ctx context.Context, noteID string) (models.Note, error) {
	var note models.Note
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", noteID).
		SetResult(&note).
		Patch(notePath)

	return note, h.check("toggle pin", resp, err)
}

func (h *httpNotesClient) DeleteNote(ctx context.Context, noteID string) (models.DeleteResult, error) {
	var result models.DeleteResponse
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", noteID).
		SetResult(&result).
		Delete(notePath)

	return result.Result, h.check("delete note", resp, err)
}

func (h *httpNotesClient) Invite(ctx context.Context, noteID, email string) (models.Collaborators, error) {
	var result models.InviteResponse
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", noteID).
		SetBody(models.InviteRequest{Email: email}).
		SetResult(&result).
		Post(notePath + "/invite")

	return result.Collaborators, h.check("invite", resp, err)
}

func (h *httpNotesClient) AttachImage(ctx context.Context, noteID, filename string, image io.Reader) (models.Note, error) {
	var note models.Note
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", noteID).
		SetFileReader("image", filename, image).
		SetResult(&note).
		Post(notePath + "/image")

	return note, h.check("attach image", resp, err)
}

func (h *httpNotesClient) DeleteImage(ctx context.Context, noteID string) (models.Note, error) {
	var note models.Note
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", noteID).
		SetResult(&note).
		Delete(notePath + "/image")

	return note, h.check("delete image", resp, err)
}

func (h *httpNotesClient) Me(ctx context.Context) (models.User, error) {
	var user models.User
	resp, err := h.authedRequest(ctx).
		SetResult(&user).
		Get("/api/users/me")

	return user, h.check("profile", resp, err)
}

func (h *httpNotesClient) authedRequest(ctx context.Context) *resty.Request {
	h.mu.RLock()
	token, session := h.token, h.sessionID
	h.mu.RUnlock()

	req := h.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if session != "" {
		req.SetHeader(sessionID, session)
	}
	return req
}

// check wraps transport failures with op and maps non-2xx responses.
func (h *httpNotesClient) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		h.logger.Debug().Err(err).Str("func", "httpNotesClient.check").Str("op", op).Msg("request failed")
		return fmt.Errorf("%s request: %w", op, err)
	}
	return mapHTTPError(resp)
}
