package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 64 * 1024
	outboxSize   = 256
)

// ClientMessageHandler обрабатывает фреймы клиента.
// Close вызывается один раз, когда соединение закрыто.
type ClientMessageHandler interface {
	HandleMessage(client *Client, msg *Message) error
	Close()
}

// Client обслуживает одно websocket соединение пользователя. Пишет в сокет
// только writeLoop, фреймы попадают к нему через outbox.
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	// токен сессии, по которому соединение закрывается при выходе
	Token string

	conn   *websocket.Conn
	hub    *Hub
	outbox chan []byte
	done   chan struct{}
	once   sync.Once
	log    *zerolog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, log *zerolog.Logger) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		conn:   conn,
		hub:    hub,
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
		log:    log,
	}
}

// Serve регистрирует клиента в hub и обслуживает соединение до закрытия
func (c *Client) Serve(handler ClientMessageHandler) {
	c.hub.Register(c)
	go c.writeLoop()
	c.readLoop(handler)
}

func (c *Client) shutdown() {
	c.once.Do(func() { close(c.done) })
}

func (c *Client) readLoop(handler ClientMessageHandler) {
	defer func() {
		handler.Close()
		c.hub.Unregister(c)
		c.shutdown()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.extendReadDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	for {
		msg, err := c.readFrame()
		switch {
		case errors.Is(err, ErrInvalidMessage):
			c.SendError(nil, CodeBadRequest, err.Error())
			continue
		case err != nil:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Str("client_id", c.ID.String()).Msg("websocket read failed")
			}
			return
		}

		c.extendReadDeadline()
		if msg.Type == TypePong {
			continue
		}
		if err := handler.HandleMessage(c, msg); err != nil {
			c.SendError(msg.EventID, errorCode(err), err.Error())
		}
	}
}

// readFrame читает один фрейм. Битый JSON не рвёт соединение.
func (c *Client) readFrame() (*Message, error) {
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	msg.UserID = c.UserID
	return &msg, nil
}

func (c *Client) extendReadDeadline() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

func (c *Client) writeLoop() {
	keepalive := time.NewTicker(pingPeriod)
	defer func() {
		keepalive.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case frame := <-c.outbox:
			if err := c.write(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-keepalive.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(kind int, payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, payload)
}

// SendMessage ставит фрейм в очередь, не блокируясь
func (c *Client) SendMessage(msgType MessageType, eventID *uuid.UUID, data any) error {
	frame, err := encodeFrame(msgType, eventID, c.UserID, data)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.outbox <- frame:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(eventID *uuid.UUID, code, desc string) {
	if err := c.SendMessage(TypeError, eventID, errorPayload{Code: code, Desc: desc}); err != nil {
		c.log.Debug().Err(err).Str("client_id", c.ID.String()).Msg("error frame dropped")
	}
}
