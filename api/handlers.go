// Package api exposes the thin request/response endpoints around the relay:
// registration, login, channel/user listings, history queries and read marks.
// These are read-through and write-through calls with no concurrency concerns
// of their own; everything real-time lives in the relay package.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/relay"
	"chat-relay/repositories"
	"chat-relay/services"

	"github.com/samber/lo"
)

type Handler struct {
	authService services.IAuthService
	chatService services.IChatService
	relayServer *relay.Server
	monitor     *observability.Monitor
	log         *slog.Logger
}

func NewHandler(
	authService services.IAuthService,
	chatService services.IChatService,
	relayServer *relay.Server,
	monitor *observability.Monitor,
	log *slog.Logger,
) *Handler {
	return &Handler{
		authService: authService,
		chatService: chatService,
		relayServer: relayServer,
		monitor:     monitor,
		log:         log,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		h.log.Warn("registration rejected", "username", req.Username, "error", err)
		http.Error(w, err.Error(), errors.MapToHTTPStatus(err))
		return
	}

	h.log.Info("user registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token), Username: req.Username})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		http.Error(w, "invalid username or password", errors.MapToHTTPStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token), Username: req.Username})
}

func (h *Handler) listChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.chatService.ListChannels()
	if err != nil {
		http.Error(w, "channel listing failed", http.StatusInternalServerError)
		return
	}
	if channels == nil {
		channels = []repositories.Channel{}
	}
	writeJSON(w, http.StatusOK, channels)
}

type userResponse struct {
	Username string `json:"username"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	usernames, err := h.chatService.ListUsers()
	if err != nil {
		http.Error(w, "user listing failed", http.StatusInternalServerError)
		return
	}
	users := lo.Map(usernames, func(name string, _ int) userResponse {
		return userResponse{Username: name}
	})
	writeJSON(w, http.StatusOK, users)
}

type messageResponse struct {
	ID        string    `json:"id"`
	ChannelID int64     `json:"channel_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	At        time.Time `json:"at"`
}

type historyResponse struct {
	Messages []messageResponse `json:"messages"`
	Cursor   *string           `json:"cursor,omitempty"`
}

func (h *Handler) channelHistory(w http.ResponseWriter, r *http.Request) {
	channelID, err := strconv.ParseInt(r.URL.Query().Get("channel_id"), 10, 64)
	if err != nil {
		http.Error(w, "channel_id must be an integer", http.StatusBadRequest)
		return
	}

	messages, cursor, err := h.chatService.GetChannelMessages(channelID, cursorParam(r))
	if err != nil {
		http.Error(w, "history lookup failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Messages: lo.Map(messages, func(m repositories.DiskMessage, _ int) messageResponse {
			return messageResponse{
				ID:        m.ID.String(),
				ChannelID: m.ChannelID,
				Username:  m.Author,
				Content:   m.Content,
				At:        m.At,
			}
		}),
		Cursor: cursor,
	})
}

type directMessageResponse struct {
	ID       string    `json:"id"`
	Sender   string    `json:"sender"`
	Receiver string    `json:"receiver"`
	Content  string    `json:"content"`
	At       time.Time `json:"at"`
}

type conversationResponse struct {
	Messages []directMessageResponse `json:"messages"`
	Cursor   *string                 `json:"cursor,omitempty"`
}

func (h *Handler) directHistory(w http.ResponseWriter, r *http.Request) {
	withUser := r.URL.Query().Get("with_user")
	if withUser == "" {
		http.Error(w, "with_user is required", http.StatusBadRequest)
		return
	}
	identity := identityFrom(r.Context())

	messages, cursor, err := h.chatService.GetConversation(string(identity), withUser, cursorParam(r))
	if err != nil {
		http.Error(w, "conversation lookup failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, conversationResponse{
		Messages: lo.Map(messages, func(m repositories.DiskDirectMessage, _ int) directMessageResponse {
			return directMessageResponse{
				ID:       m.ID.String(),
				Sender:   m.Sender,
				Receiver: m.Receiver,
				Content:  m.Content,
				At:       m.At,
			}
		}),
		Cursor: cursor,
	})
}

type markReadRequest struct {
	ChannelID int64 `json:"channel_id"`
}

func (h *Handler) markChannelRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	identity := identityFrom(r.Context())
	if err := h.chatService.MarkChannelRead(string(identity), req.ChannelID); err != nil {
		http.Error(w, "read mark failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.monitor.Snapshot()
	// The hub holds the authoritative publish/drop totals.
	hub := h.relayServer.Hub()
	snapshot.EventsPublished = hub.Published()
	snapshot.EventsDropped = hub.TotalDropped()
	writeJSON(w, http.StatusOK, snapshot)
}

func cursorParam(r *http.Request) *string {
	if c := r.URL.Query().Get("cursor"); c != "" {
		return &c
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
