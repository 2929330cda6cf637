// Package event holds the closed variant sets exchanged over a relay
// connection: ClientEvent for inbound parsed intents, ServerEvent for
// outbound broadcast payloads.
package event

import "encoding/json"

// ClientEvent is one of the recognized inbound intents. The set is closed:
// PostChannel, PostDirect, Typing.
type ClientEvent interface {
	isClientEvent()
}

// PostChannel is a request to post a message into a channel.
type PostChannel struct {
	ChannelID int64
	Content   string
}

// PostDirect is a request to send a direct message to another user.
type PostDirect struct {
	Receiver string
	Content  string
}

// Typing signals that the author is composing a message. Receiver is set when
// the signal addresses a direct conversation, nil for channel typing.
type Typing struct {
	ChannelID int64
	Receiver  *string
}

func (PostChannel) isClientEvent() {}
func (PostDirect) isClientEvent()  {}
func (Typing) isClientEvent()      {}

// Inbound frames are untagged, so each shape is matched structurally on its
// required fields. Pointers distinguish "absent" from zero values, and a
// wrong-typed field makes the whole decode fail for that shape only.
type channelShape struct {
	ChannelID *int64  `json:"channel_id"`
	Content   *string `json:"content"`
}

type directShape struct {
	Receiver *string `json:"receiver"`
	Content  *string `json:"content"`
}

type typingShape struct {
	ChannelID *int64  `json:"channel_id"`
	Receiver  *string `json:"receiver"`
}

// Parse matches a raw inbound frame against the known shapes in a fixed
// priority order: PostChannel, then PostDirect, then Typing. The first shape
// whose required fields are all present and correctly typed wins, so a frame
// carrying both a channel_id and a receiver resolves to the earliest variant.
// Frames matching no shape report ok=false and must be dropped silently;
// unknown frame kinds are tolerated rather than treated as protocol errors.
func Parse(raw []byte) (ClientEvent, bool) {
	var ch channelShape
	if err := json.Unmarshal(raw, &ch); err == nil && ch.ChannelID != nil && ch.Content != nil {
		return PostChannel{ChannelID: *ch.ChannelID, Content: *ch.Content}, true
	}

	var dm directShape
	if err := json.Unmarshal(raw, &dm); err == nil && dm.Receiver != nil && dm.Content != nil {
		return PostDirect{Receiver: *dm.Receiver, Content: *dm.Content}, true
	}

	var ty typingShape
	if err := json.Unmarshal(raw, &ty); err == nil && ty.ChannelID != nil {
		return Typing{ChannelID: *ty.ChannelID, Receiver: ty.Receiver}, true
	}

	return nil, false
}
