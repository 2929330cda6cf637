package relay

import (
	"context"
	"log/slog"
	"sync"

	"chat-relay/auth"
	"chat-relay/domain/event"

	"github.com/gorilla/websocket"
)

// Gateway is the durable store the relay appends accepted events to. Both
// operations are best-effort from the relay's point of view: a failed append
// is logged and the broadcast still happens.
type Gateway interface {
	AppendChannelPost(ctx context.Context, channelID int64, author, content string) error
	AppendDirectMessage(ctx context.Context, sender, receiver, content string) error
}

// Metrics receives relay telemetry. Satisfied by observability.Monitor.
type Metrics interface {
	IncrSessionsOpened()
	IncrSessionsClosed()
	IncrEventsPublished()
	IncrPersistFailures()
	AddEventsDropped(n uint64)
}

// Session bridges one authenticated, upgraded connection to the hub. It runs
// two loops: the outbound loop drains the hub subscription into the
// connection, the inbound loop reads client frames and turns the recognized
// ones into persisted and/or broadcast events. Whichever loop stops first
// tears the whole session down.
type Session struct {
	identity auth.Identity
	conn     *websocket.Conn
	hub      *Hub
	sub      *Subscription
	gateway  Gateway
	metrics  Metrics
	log      *slog.Logger
}

// NewSession pairs an upgraded connection with a fresh hub subscription. The
// identity was resolved before the upgrade and is immutable for the session's
// lifetime.
func NewSession(identity auth.Identity, conn *websocket.Conn, hub *Hub, gateway Gateway, metrics Metrics, log *slog.Logger) *Session {
	return &Session{
		identity: identity,
		conn:     conn,
		hub:      hub,
		sub:      hub.Subscribe(),
		gateway:  gateway,
		metrics:  metrics,
		log:      log.With("identity", string(identity)),
	}
}

// Run serves the session until the connection fails in either direction or
// ctx is cancelled. It returns only once both loops have stopped and the
// subscription is severed, so no orphaned reader or writer survives a
// half-closed connection.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer cancel()
		s.outbound(ctx)
	}()
	go func() {
		defer wg.Done()
		defer cancel()
		s.inbound(ctx)
	}()

	// First loop to finish cancels ctx; closing the connection unblocks the
	// other loop's pending read or write.
	<-ctx.Done()
	_ = s.conn.Close()
	wg.Wait()

	s.hub.Unsubscribe(s.sub)
	if n := s.sub.Dropped(); n > 0 {
		s.metrics.AddEventsDropped(n)
		s.log.Warn("session lagged behind the hub", "dropped", n)
	}
}

// outbound writes every hub delivery to the connection, in publish order.
func (s *Session) outbound(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.sub.Done():
			return
		case payload := <-s.sub.C():
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.log.Debug("outbound write failed, closing session", "error", err)
				return
			}
		}
	}
}

// inbound processes client frames strictly in arrival order. It exits on the
// first fatal read error, which includes the connection close triggered by
// the outbound loop's teardown.
func (s *Session) inbound(ctx context.Context) {
	for {
		kind, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("inbound read finished", "error", err)
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		s.handleFrame(ctx, raw)
	}
}

// handleFrame runs the codec and dispatches the recognized event. The durable
// write and the broadcast are sequential but independently fallible: the
// broadcast never depends on the append succeeding.
func (s *Session) handleFrame(ctx context.Context, raw []byte) {
	parsed, ok := event.Parse(raw)
	if !ok {
		// Unrecognized frame: drop silently, keep the connection open.
		return
	}

	switch e := parsed.(type) {
	case event.PostChannel:
		if err := s.gateway.AppendChannelPost(ctx, e.ChannelID, string(s.identity), e.Content); err != nil {
			s.metrics.IncrPersistFailures()
			s.log.Error("channel post not persisted", "channel_id", e.ChannelID, "error", err)
		}
		s.publish(event.ChannelMessage{
			ChannelID: e.ChannelID,
			Username:  string(s.identity),
			Content:   e.Content,
		})

	case event.PostDirect:
		if err := s.gateway.AppendDirectMessage(ctx, string(s.identity), e.Receiver, e.Content); err != nil {
			s.metrics.IncrPersistFailures()
			s.log.Error("direct message not persisted", "receiver", e.Receiver, "error", err)
		}
		s.publish(event.DirectMessage{
			Sender:   string(s.identity),
			Receiver: e.Receiver,
			Content:  e.Content,
		})

	case event.Typing:
		// Ephemeral: broadcast only.
		s.publish(event.TypingNotice{
			Username:  string(s.identity),
			ChannelID: e.ChannelID,
			Sender:    e.Receiver,
		})
	}
}

func (s *Session) publish(e event.ServerEvent) {
	payload, err := event.Serialize(e)
	if err != nil {
		s.log.Error("event serialization failed", "error", err)
		return
	}
	s.hub.Publish(payload)
	s.metrics.IncrEventsPublished()
}
