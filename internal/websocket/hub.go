package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const keepaliveInterval = 30 * time.Second

// Hub ведёт реестр открытых соединений по пользователям.
// Рассылки нет: переписку клиент получает только опросом выбранного чата.
type Hub struct {
	mu      sync.RWMutex
	byUser  map[uuid.UUID]map[uuid.UUID]*Client
	total   int
	stopped bool

	keepalive time.Duration
	done      chan struct{}
	stopOnce  sync.Once
	log       *zerolog.Logger
}

func NewHub(log *zerolog.Logger) *Hub {
	return &Hub{
		byUser:    make(map[uuid.UUID]map[uuid.UUID]*Client),
		keepalive: keepaliveInterval,
		done:      make(chan struct{}),
		log:       log,
	}
}

// Run шлёт всем клиентам прикладной ping, пока hub не остановлен
func (h *Hub) Run() {
	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			for _, c := range h.snapshot() {
				_ = c.SendMessage(TypePing, nil, nil)
			}
		}
	}
}

// Stop закрывает все соединения. Клиенты, пришедшие после, закрываются сразу.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	clients := h.collect()
	h.byUser = make(map[uuid.UUID]map[uuid.UUID]*Client)
	h.total = 0
	h.stopped = true
	h.mu.Unlock()

	for _, c := range clients {
		c.shutdown()
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		c.shutdown()
		return
	}
	conns, ok := h.byUser[c.UserID]
	if !ok {
		conns = make(map[uuid.UUID]*Client)
		h.byUser[c.UserID] = conns
	}
	if _, dup := conns[c.ID]; !dup {
		conns[c.ID] = c
		h.total++
	}
	h.mu.Unlock()

	h.log.Debug().
		Str("client_id", c.ID.String()).
		Str("user_id", c.UserID.String()).
		Msg("client registered")
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	conns := h.byUser[c.UserID]
	if _, ok := conns[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(conns, c.ID)
	if len(conns) == 0 {
		delete(h.byUser, c.UserID)
	}
	h.total--
	h.mu.Unlock()

	h.log.Debug().
		Str("client_id", c.ID.String()).
		Str("user_id", c.UserID.String()).
		Msg("client unregistered")
}

// DisconnectSession закрывает соединения пользователя, открытые с token.
// Пустой token закрывает все соединения пользователя.
func (h *Hub) DisconnectSession(userID uuid.UUID, token string) int {
	h.mu.RLock()
	var victims []*Client
	for _, c := range h.byUser[userID] {
		if token == "" || c.Token == token {
			victims = append(victims, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range victims {
		c.shutdown()
	}
	if len(victims) > 0 {
		h.log.Debug().
			Str("user_id", userID.String()).
			Int("clients", len(victims)).
			Msg("session sockets closed")
	}
	return len(victims)
}

// ClientCount возвращает число открытых соединений
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// OnlineUsers возвращает пользователей хотя бы с одним соединением
func (h *Hub) OnlineUsers() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(h.byUser))
	for id := range h.byUser {
		users = append(users, id)
	}
	return users
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.collect()
}

// вызывается под h.mu
func (h *Hub) collect() []*Client {
	out := make([]*Client, 0, h.total)
	for _, conns := range h.byUser {
		for _, c := range conns {
			out = append(out, c)
		}
	}
	return out
}
