package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type echoHandler struct {
	fail   error
	closed chan struct{}
}

func (h *echoHandler) HandleMessage(c *Client, msg *Message) error {
	if h.fail != nil {
		return h.fail
	}
	return c.SendMessage(msg.Type, msg.EventID, map[string]string{"from": msg.UserID.String()})
}

func (h *echoHandler) Close() { close(h.closed) }

func newEchoHandler() *echoHandler {
	return &echoHandler{closed: make(chan struct{})}
}

func dial(t *testing.T, hub *Hub, handler ClientMessageHandler) (*websocket.Conn, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	log := zerolog.Nop()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn, userID, &log).Serve(handler)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, userID
}

func readFrame(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not closed")
	}
}

func TestServeStampsUser(t *testing.T) {
	nop := zerolog.Nop()
	hub := NewHub(&nop)
	conn, userID := dial(t, hub, newEchoHandler())

	eventID := uuid.New()
	if err := conn.WriteJSON(Message{Type: TypeChatSend, EventID: &eventID, UserID: uuid.New()}); err != nil {
		t.Fatal(err)
	}

	msg := readFrame(t, conn)
	if msg.Type != TypeChatSend || msg.EventID == nil || *msg.EventID != eventID {
		t.Fatalf("frame = %+v", msg)
	}
	var data map[string]string
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["from"] != userID.String() || msg.UserID != userID {
		t.Fatalf("user id was not stamped by the server: %+v %v", msg, data)
	}
	if hub.ClientCount() != 1 || len(hub.OnlineUsers()) != 1 {
		t.Fatalf("hub count = %d", hub.ClientCount())
	}
}

func TestInvalidFrameKeepsConnection(t *testing.T) {
	nop := zerolog.Nop()
	conn, _ := dial(t, NewHub(&nop), newEchoHandler())

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	msg := readFrame(t, conn)
	var payload errorPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeError || payload.Code != CodeBadRequest {
		t.Fatalf("frame = %+v", msg)
	}

	if err := conn.WriteJSON(Message{Type: TypeChatLeave}); err != nil {
		t.Fatal(err)
	}
	if msg := readFrame(t, conn); msg.Type != TypeChatLeave {
		t.Fatalf("after invalid frame got %+v", msg)
	}
}

func TestHandlerErrorCode(t *testing.T) {
	nop := zerolog.Nop()
	handler := newEchoHandler()
	handler.fail = &CodedError{Code: "NOT_A_MEMBER", Err: errors.New("not a member")}
	conn, _ := dial(t, NewHub(&nop), handler)

	if err := conn.WriteJSON(Message{Type: TypeChatSelect}); err != nil {
		t.Fatal(err)
	}
	msg := readFrame(t, conn)
	var payload errorPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeError || payload.Code != "NOT_A_MEMBER" || payload.Desc != "not a member" {
		t.Fatalf("frame = %+v, payload = %+v", msg, payload)
	}
}

func TestDisconnectReleasesHandler(t *testing.T) {
	nop := zerolog.Nop()
	hub := NewHub(&nop)
	handler := newEchoHandler()
	conn, _ := dial(t, hub, handler)

	if err := conn.WriteJSON(Message{Type: TypeChatLeave}); err != nil {
		t.Fatal(err)
	}
	readFrame(t, conn)
	conn.Close()

	waitClosed(t, handler.closed)
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client still registered: %d", hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubStopClosesClients(t *testing.T) {
	nop := zerolog.Nop()
	hub := NewHub(&nop)
	handler := newEchoHandler()
	conn, _ := dial(t, hub, handler)

	if err := conn.WriteJSON(Message{Type: TypeChatLeave}); err != nil {
		t.Fatal(err)
	}
	readFrame(t, conn)

	hub.Stop()
	waitClosed(t, handler.closed)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("connection still open after Stop")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("count = %d", hub.ClientCount())
	}
}

func TestRegisterAfterStop(t *testing.T) {
	nop := zerolog.Nop()
	hub := NewHub(&nop)
	hub.Stop()

	c := NewClient(hub, nil, uuid.New(), &nop)
	hub.Register(c)

	if hub.ClientCount() != 0 {
		t.Fatal("stopped hub accepted a client")
	}
	if err := c.SendMessage(TypePing, nil, nil); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("err = %v, want ErrClientClosed", err)
	}
}

func TestSendMessageQueueFull(t *testing.T) {
	nop := zerolog.Nop()
	c := NewClient(NewHub(&nop), nil, uuid.New(), &nop)

	for i := 0; i < outboxSize; i++ {
		if err := c.SendMessage(TypePing, nil, nil); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if err := c.SendMessage(TypePing, nil, nil); !errors.Is(err, ErrClientQueueFull) {
		t.Fatalf("err = %v, want ErrClientQueueFull", err)
	}
}

func TestDisconnectSession(t *testing.T) {
	nop := zerolog.Nop()
	hub := NewHub(&nop)
	userID := uuid.New()

	phone := NewClient(hub, nil, userID, &nop)
	phone.Token = "token-a"
	laptop := NewClient(hub, nil, userID, &nop)
	laptop.Token = "token-b"
	stranger := NewClient(hub, nil, uuid.New(), &nop)
	stranger.Token = "token-a"
	for _, c := range []*Client{phone, laptop, stranger} {
		hub.Register(c)
	}

	if n := hub.DisconnectSession(userID, "token-a"); n != 1 {
		t.Fatalf("closed %d clients, want 1", n)
	}
	if err := phone.SendMessage(TypePing, nil, nil); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("phone: %v", err)
	}
	for _, c := range []*Client{laptop, stranger} {
		if err := c.SendMessage(TypePing, nil, nil); err != nil {
			t.Fatalf("client %s closed by another session: %v", c.ID, err)
		}
	}

	if n := hub.DisconnectSession(userID, ""); n != 2 {
		t.Fatalf("closing every session closed %d, want 2 (phone is still registered)", n)
	}
	if err := laptop.SendMessage(TypePing, nil, nil); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("laptop: %v", err)
	}
}
