package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/database"
	"github.com/thereayou/eventnet/internal/models"
)

// memStore хранит всё в памяти с той же семантикой ошибок, что у database
type memStore struct {
	mu sync.Mutex

	users    map[uuid.UUID]*models.User
	events   map[uuid.UUID]*models.Event
	regs     []*models.Registration
	conns    []*models.Connection
	messages []*models.Message

	clock time.Time
	fail  error
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[uuid.UUID]*models.User),
		events: make(map[uuid.UUID]*models.Event),
		clock:  time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// tick выдаёт строго возрастающее время для created_at
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) addUser(name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: uuid.New(), Email: strings.ToLower(name) + "@example.com", FullName: &name}
	s.users[u.ID] = u
	return u
}

func (s *memStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return database.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) UpdateProfile(_ context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if patch.FullName != nil {
		u.FullName = patch.FullName
	}
	if patch.Company != nil {
		u.Company = patch.Company
	}
	if patch.Position != nil {
		u.Position = patch.Position
	}
	if patch.Bio != nil {
		u.Bio = patch.Bio
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) ListProfiles(_ context.Context, exclude uuid.UUID, search string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	q := strings.ToLower(search)
	var out []models.User
	for _, u := range s.users {
		if u.ID == exclude {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.DisplayName()), q) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName() < out[j].DisplayName() })
	return out, nil
}

func (s *memStore) withParties(c models.Connection) models.Connection {
	if u, ok := s.users[c.RequesterID]; ok {
		c.Requester = *u
	}
	if u, ok := s.users[c.ReceiverID]; ok {
		c.Receiver = *u
	}
	return c
}

func (s *memStore) CreateConnection(_ context.Context, conn *models.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	key := models.PairKey(conn.RequesterID, conn.ReceiverID)
	for _, c := range s.conns {
		if c.PairKey == key {
			return database.ErrConnectionExists
		}
	}
	conn.ID = uuid.New()
	conn.PairKey = key
	conn.CreatedAt = s.tick()
	conn.UpdatedAt = conn.CreatedAt
	cp := *conn
	s.conns = append(s.conns, &cp)
	return nil
}

func (s *memStore) GetConnection(_ context.Context, id uuid.UUID) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	for _, c := range s.conns {
		if c.ID == id {
			cp := s.withParties(*c)
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) FindConnectionBetween(_ context.Context, a, b uuid.UUID) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	key := models.PairKey(a, b)
	for _, c := range s.conns {
		if c.PairKey == key {
			cp := *c
			if _, err := models.ParseConnectionStatus(string(cp.Status)); err != nil {
				return nil, err
			}
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) TransitionConnection(_ context.Context, id uuid.UUID, from, to models.ConnectionStatus) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		if c.ID == id && c.Status == from {
			c.Status = to
			c.UpdatedAt = s.tick()
			cp := s.withParties(*c)
			return &cp, nil
		}
	}
	return nil, database.ErrStaleTransition
}

func (s *memStore) ListPendingFor(_ context.Context, receiverID uuid.UUID) ([]models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Connection
	for _, c := range s.conns {
		if c.ReceiverID == receiverID && c.Status == models.ConnectionPending {
			out = append(out, s.withParties(*c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListConnectionsFor(_ context.Context, userID uuid.UUID, status models.ConnectionStatus) ([]models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	var out []models.Connection
	for _, c := range s.conns {
		if !c.Involves(userID) || (status != "" && c.Status != status) {
			continue
		}
		out = append(out, s.withParties(*c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

func (s *memStore) CreateEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	event.ID = uuid.New()
	event.CreatedAt = s.tick()
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *memStore) GetEvent(_ context.Context, id uuid.UUID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	e, ok := s.events[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) sortedEvents(keep func(uuid.UUID) bool) []models.Event {
	out := []models.Event{}
	for _, e := range s.events {
		if keep(e.ID) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *memStore) ListEvents(_ context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	return s.sortedEvents(func(uuid.UUID) bool { return true }), nil
}

func (s *memStore) ListEventsByIDs(_ context.Context, ids []uuid.UUID) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return s.sortedEvents(func(id uuid.UUID) bool { return set[id] }), nil
}

func (s *memStore) activeCount(eventID uuid.UUID) int64 {
	var n int64
	for _, r := range s.regs {
		if r.EventID == eventID && r.Status == models.RegistrationRegistered {
			n++
		}
	}
	return n
}

func (s *memStore) findActive(eventID, userID uuid.UUID) *models.Registration {
	for _, r := range s.regs {
		if r.EventID == eventID && r.UserID == userID && r.Status == models.RegistrationRegistered {
			return r
		}
	}
	return nil
}

func (s *memStore) BookRegistration(_ context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	event, ok := s.events[eventID]
	if !ok {
		return nil, database.ErrNotFound
	}
	if s.findActive(eventID, userID) != nil {
		return nil, database.ErrAlreadyRegistered
	}
	if event.MaxParticipants != nil && s.activeCount(eventID) >= int64(*event.MaxParticipants) {
		return nil, database.ErrEventFull
	}
	reg := &models.Registration{
		ID:           uuid.New(),
		EventID:      eventID,
		UserID:       userID,
		Status:       models.RegistrationRegistered,
		RegisteredAt: s.tick(),
	}
	s.regs = append(s.regs, reg)
	cp := *reg
	return &cp, nil
}

func (s *memStore) CancelRegistration(_ context.Context, eventID, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return 0, s.fail
	}
	var n int64
	kept := s.regs[:0]
	for _, r := range s.regs {
		if r.EventID == eventID && r.UserID == userID && r.Status == models.RegistrationRegistered {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.regs = kept
	return n, nil
}

func (s *memStore) CountActiveRegistrations(_ context.Context, eventID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return 0, s.fail
	}
	return s.activeCount(eventID), nil
}

func (s *memStore) FindActiveRegistration(_ context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	r := s.findActive(eventID, userID)
	if r == nil {
		return nil, database.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) ActiveEventIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for _, r := range s.regs {
		if r.UserID == userID && r.Status == models.RegistrationRegistered {
			ids = append(ids, r.EventID)
		}
	}
	return ids, nil
}

func (s *memStore) MarkAttended(_ context.Context, eventID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.findActive(eventID, userID)
	if r == nil {
		return database.ErrNotFound
	}
	r.Status = models.RegistrationAttended
	return nil
}

func (s *memStore) AppendMessage(_ context.Context, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	var last int64
	for _, m := range s.messages {
		if m.EventID == message.EventID && m.Seq > last {
			last = m.Seq
		}
	}
	message.ID = uuid.New()
	message.Seq = last + 1
	cp := *message
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *memStore) GetEventMessages(_ context.Context, eventID uuid.UUID) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	out := []models.Message{}
	for _, m := range s.messages {
		if m.EventID == eventID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (s *memStore) LatestMessage(ctx context.Context, eventID uuid.UUID) (*models.Message, error) {
	transcript, err := s.GetEventMessages(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(transcript) == 0 {
		return nil, database.ErrNotFound
	}
	last := transcript[len(transcript)-1]
	return &last, nil
}

func (s *memStore) CountEventMessages(ctx context.Context, eventID uuid.UUID) (int64, error) {
	transcript, err := s.GetEventMessages(ctx, eventID)
	return int64(len(transcript)), err
}
