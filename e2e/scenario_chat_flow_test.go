package e2e

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type testChatFlowSuite struct {
	BaseRelaySuite
}

func TestChatFlowSuite(t *testing.T) {
	suite.Run(t, &testChatFlowSuite{})
}

func (s *testChatFlowSuite) TestFullChatFlow() {
	var aliceToken, bobToken string

	// --- STEP 0: ACCOUNTS ---
	s.Run("Step 0: Register and login both participants", func() {
		s.Step("Registering alice and bob")
		aliceToken = s.RegisterUser("alice")
		s.RegisterUser("bob")

		// A fresh login must mint a token usable exactly like the register one.
		resp := s.Post("/login", "", map[string]string{
			"username": "bob",
			"password": "ComplexPass123!",
		})
		defer resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
		bobToken = body.Token
	})

	// --- STEP 1: LIVE RELAY ---
	s.Run("Step 1: Channel post reaches every open session", func() {
		s.Step("Opening two sessions and relaying a channel post")
		s.WaitForSessions(0)
		alice := s.Dial(aliceToken)
		defer alice.Close()
		bob := s.Dial(bobToken)
		defer bob.Close()
		s.WaitForSessions(2)

		s.SendFrame(alice, map[string]any{"channel_id": 1, "content": "hello from alice"})

		aliceEvent := s.ReadEvent(alice)
		bobEvent := s.ReadEvent(bob)

		for _, event := range []map[string]any{aliceEvent, bobEvent} {
			s.Require().Equal("Channel", event["type"])
			s.Require().Equal(float64(1), event["channel_id"])
			s.Require().Equal("alice", event["username"])
			s.Require().Equal("hello from alice", event["content"])
		}
	})

	// --- STEP 2: PERSISTED HISTORY ---
	s.Run("Step 2: History endpoint returns the relayed post", func() {
		s.Step("Fetching channel history")
		resp := s.Get("/history?channel_id=1", bobToken)
		defer resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var body struct {
			Messages []struct {
				Username string `json:"username"`
				Content  string `json:"content"`
			} `json:"messages"`
		}
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
		s.Require().Len(body.Messages, 1)
		s.Require().Equal("alice", body.Messages[0].Username)
		s.Require().Equal("hello from alice", body.Messages[0].Content)
	})

	// --- STEP 3: DIRECT MESSAGES ---
	s.Run("Step 3: Direct message relays and persists", func() {
		s.Step("Sending a direct message from bob to alice")
		s.WaitForSessions(0)
		alice := s.Dial(aliceToken)
		defer alice.Close()
		bob := s.Dial(bobToken)
		defer bob.Close()
		s.WaitForSessions(2)

		s.SendFrame(bob, map[string]any{"receiver": "alice", "content": "psst"})

		event := s.ReadEvent(alice)
		s.Require().Equal("DM", event["type"])
		s.Require().Equal("bob", event["sender"])
		s.Require().Equal("alice", event["receiver"])
		s.Require().Equal("psst", event["content"])

		resp := s.Get("/dm_history?with_user=bob", aliceToken)
		defer resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var body struct {
			Messages []struct {
				Sender  string `json:"sender"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
		s.Require().Len(body.Messages, 1)
		s.Require().Equal("bob", body.Messages[0].Sender)
	})

	// --- STEP 4: TYPING SIGNALS ---
	s.Run("Step 4: Typing signal relays but never persists", func() {
		s.Step("Broadcasting a typing notice")
		s.WaitForSessions(0)
		alice := s.Dial(aliceToken)
		defer alice.Close()
		bob := s.Dial(bobToken)
		defer bob.Close()
		s.WaitForSessions(2)

		s.SendFrame(alice, map[string]any{"channel_id": 1})

		event := s.ReadEvent(bob)
		s.Require().Equal("Typing", event["type"])
		s.Require().Equal("alice", event["username"])
		s.Require().Equal(float64(1), event["channel_id"])
		s.Require().Nil(event["sender"])

		// The history count must not have moved since Step 2.
		resp := s.Get("/history?channel_id=1", bobToken)
		defer resp.Body.Close()
		var body struct {
			Messages []json.RawMessage `json:"messages"`
		}
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
		s.Require().Len(body.Messages, 1)
	})

	// --- STEP 5: READ MARKS & STATS ---
	s.Run("Step 5: Read marks and relay stats", func() {
		s.Step("Marking channel read and checking stats")
		resp := s.Post("/channels/reads", aliceToken, map[string]int{"channel_id": 1})
		resp.Body.Close()
		s.Require().Equal(http.StatusNoContent, resp.StatusCode)

		resp = s.Get("/stats", aliceToken)
		defer resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var stats struct {
			EventsPublished uint64 `json:"events_published"`
			SessionsOpened  uint64 `json:"sessions_opened"`
		}
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&stats))
		s.Require().GreaterOrEqual(stats.EventsPublished, uint64(3))
		s.Require().GreaterOrEqual(stats.SessionsOpened, uint64(6))
	})
}

func (s *testChatFlowSuite) TestRejectedUpgrade() {
	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"

	s.Step("Dialing without a credential")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().Error(err)
	s.Require().Nil(conn)
	s.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	s.Step("Dialing with a garbage credential")
	conn, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=garbage", nil)
	s.Require().Error(err)
	s.Require().Nil(conn)
	s.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
