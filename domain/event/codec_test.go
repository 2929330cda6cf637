package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_ChannelPost(t *testing.T) {
	req := require.New(t)

	parsed, ok := Parse([]byte(`{"channel_id":1,"content":"hi"}`))
	req.True(ok)
	req.Equal(PostChannel{ChannelID: 1, Content: "hi"}, parsed)
}

func TestParse_DirectMessage(t *testing.T) {
	req := require.New(t)

	parsed, ok := Parse([]byte(`{"receiver":"bob","content":"hey"}`))
	req.True(ok)
	req.Equal(PostDirect{Receiver: "bob", Content: "hey"}, parsed)
}

func TestParse_Typing(t *testing.T) {
	req := require.New(t)

	parsed, ok := Parse([]byte(`{"channel_id":3}`))
	req.True(ok)
	req.Equal(Typing{ChannelID: 3}, parsed)

	parsed, ok = Parse([]byte(`{"channel_id":0,"receiver":"bob"}`))
	req.True(ok)
	typing, isTyping := parsed.(Typing)
	req.True(isTyping)
	req.NotNil(typing.Receiver)
	req.Equal("bob", *typing.Receiver)
}

// A payload satisfying several shapes must always resolve to the
// earliest-listed variant. The order is part of the protocol.
func TestParse_PriorityOrderIsDeterministic(t *testing.T) {
	req := require.New(t)

	// channel_id + content + receiver: channel post wins over DM and typing.
	parsed, ok := Parse([]byte(`{"channel_id":1,"content":"hi","receiver":"bob"}`))
	req.True(ok)
	req.IsType(PostChannel{}, parsed)

	// channel_id + receiver without content: typing, not DM.
	parsed, ok = Parse([]byte(`{"channel_id":1,"receiver":"bob"}`))
	req.True(ok)
	req.IsType(Typing{}, parsed)

	// receiver + content without channel_id: DM.
	parsed, ok = Parse([]byte(`{"receiver":"bob","content":"hi"}`))
	req.True(ok)
	req.IsType(PostDirect{}, parsed)
}

func TestParse_ClientUsernameIsIgnored(t *testing.T) {
	req := require.New(t)

	// A spoofed username field has no slot in any shape; the frame still
	// parses as a channel post and the author will be injected server-side.
	parsed, ok := Parse([]byte(`{"channel_id":1,"content":"hi","username":"mallory"}`))
	req.True(ok)
	req.Equal(PostChannel{ChannelID: 1, Content: "hi"}, parsed)
}

func TestParse_RejectsUnknownAndWrongTypedFrames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"unknown fields only", `{"kind":"ping"}`},
		{"channel_id as string", `{"channel_id":"1","content":"hi"}`},
		{"content as number", `{"receiver":"bob","content":7}`},
		{"not json", `hello`},
		{"array frame", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse([]byte(tt.raw))
			require.False(t, ok)
		})
	}
}

func TestSerialize_WireTags(t *testing.T) {
	req := require.New(t)

	raw, err := Serialize(ChannelMessage{ChannelID: 1, Username: "alice", Content: "hi"})
	req.NoError(err)
	req.JSONEq(`{"type":"Channel","channel_id":1,"username":"alice","content":"hi"}`, string(raw))

	raw, err = Serialize(DirectMessage{Sender: "alice", Receiver: "bob", Content: "hey"})
	req.NoError(err)
	req.JSONEq(`{"type":"DM","sender":"alice","receiver":"bob","content":"hey"}`, string(raw))

	// Channel typing: sender is explicitly null, not omitted.
	raw, err = Serialize(TypingNotice{Username: "alice", ChannelID: 2})
	req.NoError(err)
	req.JSONEq(`{"type":"Typing","username":"alice","channel_id":2,"sender":null}`, string(raw))
}

// Round-trip: parsing a well-formed channel post and serializing the matching
// server event must reproduce the same channel id and content.
func TestRoundTrip_ChannelPost(t *testing.T) {
	req := require.New(t)

	parsed, ok := Parse([]byte(`{"channel_id":42,"content":"lorem"}`))
	req.True(ok)
	post := parsed.(PostChannel)

	raw, err := Serialize(ChannelMessage{
		ChannelID: post.ChannelID,
		Username:  "alice",
		Content:   post.Content,
	})
	req.NoError(err)

	var wire struct {
		Type      string `json:"type"`
		ChannelID int64  `json:"channel_id"`
		Content   string `json:"content"`
	}
	req.NoError(json.Unmarshal(raw, &wire))
	req.Equal(TypeChannel, wire.Type)
	req.Equal(int64(42), wire.ChannelID)
	req.Equal("lorem", wire.Content)
}
