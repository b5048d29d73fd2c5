// Command main is a small interactive terminal client for the chat endpoint.
// It logs in, opens the websocket and relays stdin lines to one recipient.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

type chatEvent struct {
	Type    string          `json:"type"`
	Src     string          `json:"src,omitempty"`
	Dst     string          `json:"dst,omitempty"`
	Author  string          `json:"author,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outgoingMessage struct {
	Type    string `json:"type"`
	Dst     string `json:"dst"`
	Message string `json:"message"`
}

func main() {
	host := flag.String("host", "localhost:3000", "API server host")
	username := flag.String("user", "", "Username to log in with")
	password := flag.String("password", "password123", "Password")
	dst := flag.String("dst", "", "Recipient user id (hex)")
	flag.Parse()

	if *username == "" || *dst == "" {
		log.Fatal("usage: chatcli -user <username> -dst <recipient-id> [-password ...] [-host ...]")
	}

	token, err := login(*host, *username, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s", *username)

	wsURL := url.URL{
		Scheme:   "ws",
		Host:     *host,
		Path:     "/api/ws/chat",
		RawQuery: "token=" + url.QueryEscape(token),
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		log.Fatalf("WebSocket dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()
	log.Printf("Connected, messages go to %s. Type and press enter.", *dst)

	done := make(chan struct{})
	go readLoop(conn, done)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			// Clean close so the server unregisters us immediately.
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			msg := outgoingMessage{Type: "message", Dst: *dst, Message: line}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("Send failed: %v", err)
				return
			}
		}
	}
}

func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Connection closed: %v", err)
			return
		}
		var event chatEvent
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("<< %s", data)
			continue
		}
		switch event.Type {
		case "message":
			var payload struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(event.Payload, &payload)
			fmt.Printf("[%s] %s\n", event.Author, payload.Message)
		case "user_status", "connected_users":
			log.Printf("<< %s %s", event.Type, event.Payload)
		case "error":
			log.Printf("Server error: %s", event.Payload)
		default:
			log.Printf("<< %s", data)
		}
	}
}

func login(host, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := http.Post(fmt.Sprintf("http://%s/api/auth/login", host),
		"application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}
