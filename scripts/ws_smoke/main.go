// Command ws_smoke exercises a running relay server end to end: it logs
// in over the REST API, opens a websocket, identifies itself and sends
// one chat message, then waits for the broadcast to come back.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/studyhall-live/relay-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	api := flag.String("api", "http://localhost:8080", "REST API base URL")
	ws := flag.String("ws", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "smoke", "username to log in or register with")
	pass := flag.String("pass", "smoke-password", "password for the account")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	token, err := login(ctx, *api, *user, *pass)
	if err != nil {
		return err
	}

	conn, _, err := websocket.Dial(ctx, *ws+"?token="+token, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", msgType, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeJoin, proto.JoinData{UserName: *user}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMsg, proto.MsgData{Text: *text}); err != nil {
		return err
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("received: type=%s", outbound.Type)
		if outbound.Event != "" {
			fmt.Printf(" event=%s", outbound.Event)
		}
		fmt.Println()

		if outbound.Error != nil {
			return fmt.Errorf("server error: %s: %s", outbound.Error.Code, outbound.Error.Msg)
		}
		if outbound.Event != proto.EventNameNewMessage {
			continue
		}

		raw, err := json.Marshal(outbound.Data)
		if err != nil {
			return fmt.Errorf("marshal outbound data: %w", err)
		}
		var evt proto.EventNewMessage
		if err := json.Unmarshal(raw, &evt); err != nil {
			fmt.Printf("raw data: %s\n", string(raw))
			return fmt.Errorf("unmarshal new_message: %w", err)
		}
		fmt.Printf("message: user=%s text=%q ts=%d\n", evt.UserName, evt.Text, evt.TS)
		return nil
	}
}

// login obtains a token, registering the account first if it does not
// exist yet.
func login(ctx context.Context, api, user, pass string) (string, error) {
	token, status, err := authPost(ctx, api+"/api/login", user, pass)
	if err != nil {
		return "", err
	}
	if status == http.StatusOK {
		return token, nil
	}

	token, status, err = authPost(ctx, api+"/api/register", user, pass)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("register: unexpected status %d", status)
	}
	return token, nil
}

func authPost(ctx context.Context, url, user, pass string) (string, int, error) {
	body, err := json.Marshal(map[string]string{"username": user, "password": pass})
	if err != nil {
		return "", 0, fmt.Errorf("marshal credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	var auth struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", resp.StatusCode, nil
	}
	return auth.Token, resp.StatusCode, nil
}
