package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"chat-relay/api"
	"chat-relay/observability"
	"chat-relay/relay"
	"chat-relay/repositories"
	"chat-relay/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

// BaseRelaySuite boots the whole stack in-process against an in-memory store:
// real repositories, real services, real hub, real router. Tests talk to it
// over actual HTTP and WebSocket connections.
type BaseRelaySuite struct {
	suite.Suite
	Config Config

	db     *badger.DB
	hub    *relay.Hub
	server *httptest.Server
}

// SetupSuite loads the environment configuration and starts the server.
func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	s.db, err = badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	messageRepository := repositories.NewMessageRepository(s.db, log, nil)
	directRepository := repositories.NewDirectMessageRepository(s.db, log, nil)
	userRepository := repositories.NewUserRepository(s.db)
	channelRepository := repositories.NewChannelRepository(s.db)
	readMarkRepository := repositories.NewReadMarkRepository(s.db)

	s.Require().NoError(channelRepository.EnsureChannel(1, "general"))
	s.Require().NoError(channelRepository.EnsureChannel(2, "random"))

	authService := services.NewAuthService(userRepository, time.Hour)
	chatService := services.NewChatService(
		messageRepository, directRepository, channelRepository, userRepository, readMarkRepository)

	monitor := observability.NewMonitor(log)
	s.hub = relay.NewHub(64)
	relayServer := relay.NewServer(s.hub, chatService, monitor, log)

	handler := api.NewHandler(authService, chatService, relayServer, monitor, log)
	s.server = httptest.NewServer(handler.Router(""))
}

func (s *BaseRelaySuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Step prints a colorized header so scenario phases stand out in logs.
func (s *BaseRelaySuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Post sends a JSON request against the running server.
func (s *BaseRelaySuite) Post(path, token string, body any) *http.Response {
	data, err := json.Marshal(body)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, bytes.NewReader(data))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	s.debugBody("POST "+path, resp)
	return resp
}

// Get performs an authenticated GET against the running server.
func (s *BaseRelaySuite) Get(path, token string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	s.debugBody("GET "+path, resp)
	return resp
}

// RegisterUser creates an account and returns its session token.
func (s *BaseRelaySuite) RegisterUser(username string) string {
	resp := s.Post("/register", "", map[string]string{
		"username": username,
		"password": "ComplexPass123!",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Require().NotEmpty(body.Token)
	return body.Token
}

// Dial opens an authenticated WebSocket session against the relay.
func (s *BaseRelaySuite) Dial(token string) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	s.Require().NoError(err)
	return conn
}

// WaitForSessions blocks until exactly n hub subscriptions are live. The
// subscription is created server-side just after the handshake, so a dialer
// that sends immediately could otherwise outrun a peer's registration.
func (s *BaseRelaySuite) WaitForSessions(n int) {
	s.Require().Eventually(func() bool {
		return s.hub.Count() == n
	}, 5*time.Second, 10*time.Millisecond)
}

// SendFrame writes a JSON client frame on an open session.
func (s *BaseRelaySuite) SendFrame(conn *websocket.Conn, frame any) {
	data, err := json.Marshal(frame)
	s.Require().NoError(err)
	if s.Config.DebugJSON {
		s.T().Logf("FRAME OUT: %s", data)
	}
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, data))
}

// ReadEvent blocks for the next relayed event and decodes it generically.
func (s *BaseRelaySuite) ReadEvent(conn *websocket.Conn) map[string]any {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)
	if s.Config.DebugJSON {
		s.T().Logf("FRAME IN: %s", data)
	}

	var event map[string]any
	s.Require().NoError(json.Unmarshal(data, &event))
	return event
}

func (s *BaseRelaySuite) debugBody(label string, resp *http.Response) {
	if !s.Config.DebugJSON {
		return
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	s.T().Logf("%s [%d]\n%s", label, resp.StatusCode, data)
}
