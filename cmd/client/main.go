package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/domain/event"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:3000"`
	Token         string `env:"CHAT_TOKEN,required=true"`
	ChannelID     int64  `env:"CHAT_CHANNEL_ID,default=1"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the WebSocket client lifecycle: dial with the credential in the
// query string, print every broadcast, and post stdin lines to the channel.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Dial the relay. The token travels as a query parameter, exactly like
	// the browser client.
	u := url.URL{Scheme: "ws", Host: config.ServerAddress, Path: "/ws",
		RawQuery: "token=" + url.QueryEscape(config.Token)}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to relay at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	log.Info("Connected! Posting to channel", "channel_id", config.ChannelID)

	// 4. Reader loop: print every broadcast the hub delivers to us.
	go func() {
		defer stop()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			printEvent(raw)
		}
	}()

	// 5. Writer loop: each stdin line becomes a channel post frame.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping client...")
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			frame, _ := json.Marshal(map[string]any{
				"channel_id": config.ChannelID,
				"content":    line,
			})
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return exitRuntime, fmt.Errorf("write failed: %w", err)
			}
		}
	}
}

// printEvent renders one broadcast payload. Unknown event types are shown
// raw so new server-side events stay visible with an old client.
func printEvent(raw []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return
	}

	switch head.Type {
	case event.TypeChannel:
		var e event.ChannelMessage
		if json.Unmarshal(raw, &e) == nil {
			fmt.Printf("[#%d] %s: %s\n", e.ChannelID, color.Green.Render(e.Username), e.Content)
		}
	case event.TypeDM:
		var e event.DirectMessage
		if json.Unmarshal(raw, &e) == nil {
			fmt.Printf("[dm] %s -> %s: %s\n", color.Magenta.Render(e.Sender), color.Magenta.Render(e.Receiver), e.Content)
		}
	case event.TypeTyping:
		var e event.TypingNotice
		if json.Unmarshal(raw, &e) == nil {
			fmt.Println(color.Gray.Render(fmt.Sprintf("%s is typing...", e.Username)))
		}
	default:
		fmt.Println(string(raw))
	}
}
