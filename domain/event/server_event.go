package event

import (
	"encoding/json"
	"fmt"
)

// Wire discriminants for outbound events. Every broadcast frame carries an
// explicit "type" field so heterogeneous events can share one stream and be
// dispatched by receivers without out-of-band context.
const (
	TypeChannel = "Channel"
	TypeDM      = "DM"
	TypeTyping  = "Typing"
)

// ServerEvent is one of the outbound broadcast payloads.
type ServerEvent interface {
	isServerEvent()
}

// ChannelMessage is a message posted into a channel. Username is the
// authenticated author, injected server-side.
type ChannelMessage struct {
	ChannelID int64  `json:"channel_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
}

// DirectMessage is a direct message between two users. The relay broadcasts
// it to every subscriber; filtering to the two parties is a client concern.
type DirectMessage struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}

// TypingNotice is ephemeral: broadcast only, never persisted. Sender carries
// the addressed receiver for direct-conversation typing and is null for
// channel typing; the wire name is kept for client compatibility.
type TypingNotice struct {
	Username  string  `json:"username"`
	ChannelID int64   `json:"channel_id"`
	Sender    *string `json:"sender"`
}

func (ChannelMessage) isServerEvent() {}
func (DirectMessage) isServerEvent()  {}
func (TypingNotice) isServerEvent()   {}

// Serialize produces the tagged wire form of an outbound event.
func Serialize(e ServerEvent) ([]byte, error) {
	switch v := e.(type) {
	case ChannelMessage:
		return json.Marshal(struct {
			Type string `json:"type"`
			ChannelMessage
		}{TypeChannel, v})
	case DirectMessage:
		return json.Marshal(struct {
			Type string `json:"type"`
			DirectMessage
		}{TypeDM, v})
	case TypingNotice:
		return json.Marshal(struct {
			Type string `json:"type"`
			TypingNotice
		}{TypeTyping, v})
	default:
		return nil, fmt.Errorf("unknown server event %T", e)
	}
}
