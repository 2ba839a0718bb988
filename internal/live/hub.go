// Package live pushes change notifications to connected browsers over
// websockets. A client opens /ws with its access token and receives a
// lists:updated message whenever one of its folders or lists changes.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lxzan/gws"
	"github.com/phrazzld/flashlists/internal/events"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultPingInterval is how often the hub pings idle connections.
	DefaultPingInterval = 25 * time.Second
	// DefaultPingWait is how long a connection may stay silent.
	DefaultPingWait = 40 * time.Second

	sessionUserID = "user_id"
)

type ctxKey struct{}

// TokenValidator validates access tokens. auth.JWTService satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string, tokenType auth.TokenType) (*auth.Claims, error)
}

// Notification is the JSON message sent to clients.
type Notification struct {
	Type     string    `json:"type"`
	FolderID uuid.UUID `json:"folder_id"`
	ListID   uuid.UUID `json:"list_id,omitempty"`
	Reason   string    `json:"reason"`
}

// Config tunes the hub. Zero values use the defaults.
type Config struct {
	PingInterval time.Duration
	PingWait     time.Duration
}

// Hub tracks websocket connections per user and fans events out to them.
type Hub struct {
	upgrader *gws.Upgrader
	tokens   TokenValidator
	gauge    prometheus.Gauge
	logger   *slog.Logger
	cfg      Config

	mu    sync.RWMutex
	conns map[uuid.UUID]map[*gws.Conn]struct{}
}

var (
	_ events.EventHandler = (*Hub)(nil)
	_ gws.Event           = (*Hub)(nil)
	_ http.Handler        = (*Hub)(nil)
)

// NewHub creates a hub. gauge may be nil.
func NewHub(tokens TokenValidator, gauge prometheus.Gauge, cfg Config, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.PingWait <= 0 {
		cfg.PingWait = DefaultPingWait
	}

	h := &Hub{
		tokens: tokens,
		gauge:  gauge,
		logger: log.With(slog.String("component", "live_hub")),
		cfg:    cfg,
		conns:  make(map[uuid.UUID]map[*gws.Conn]struct{}),
	}
	h.upgrader = gws.NewUpgrader(h, &gws.ServerOption{
		CheckUtf8Enabled:  true,
		Recovery:          gws.Recovery,
		PermessageDeflate: gws.PermessageDeflate{Enabled: true},
		Authorize: func(r *http.Request, session gws.SessionStorage) bool {
			userID, ok := r.Context().Value(ctxKey{}).(uuid.UUID)
			if !ok {
				return false
			}
			session.Store(sessionUserID, userID)
			return true
		},
	})
	return h
}

// ServeHTTP authenticates the request and upgrades it. The token comes from
// the token query parameter or a Bearer Authorization header.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	claims, err := h.tokens.ValidateToken(r.Context(), token, auth.TokenTypeAccess)
	if err != nil {
		log.Debug("websocket authorization failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims.UserID))
	socket, err := h.upgrader.Upgrade(w, r)
	if err != nil {
		log.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	go socket.ReadLoop()
}

// OnOpen implements gws.Event.
func (h *Hub) OnOpen(socket *gws.Conn) {
	_ = socket.SetDeadline(time.Now().Add(h.cfg.PingWait))

	userID, ok := userOf(socket)
	if !ok {
		_ = socket.WriteClose(1008, []byte("unauthorized"))
		return
	}

	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*gws.Conn]struct{})
	}
	h.conns[userID][socket] = struct{}{}
	n := len(h.conns[userID])
	h.mu.Unlock()

	if h.gauge != nil {
		h.gauge.Inc()
	}
	h.logger.Info("live client connected",
		slog.String("user_id", userID.String()),
		slog.Int("user_connections", n))
}

// OnClose implements gws.Event.
func (h *Hub) OnClose(socket *gws.Conn, err error) {
	userID, ok := userOf(socket)
	if !ok {
		return
	}

	h.mu.Lock()
	_, tracked := h.conns[userID][socket]
	delete(h.conns[userID], socket)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	h.mu.Unlock()

	if tracked && h.gauge != nil {
		h.gauge.Dec()
	}
	h.logger.Debug("live client disconnected",
		slog.String("user_id", userID.String()),
		slog.Any("reason", err))
}

// OnPing implements gws.Event.
func (h *Hub) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.cfg.PingWait))
	_ = socket.WritePong(payload)
}

// OnPong implements gws.Event.
func (h *Hub) OnPong(socket *gws.Conn, _ []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.cfg.PingWait))
}

// OnMessage implements gws.Event. Clients only listen; any message counts
// as a heartbeat.
func (h *Hub) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = socket.SetDeadline(time.Now().Add(h.cfg.PingWait))
}

// HandleEvent broadcasts the event to every connection of its user.
func (h *Hub) HandleEvent(ctx context.Context, event *events.ListsUpdatedEvent) error {
	payload, err := json.Marshal(Notification{
		Type:     events.TypeListsUpdated,
		FolderID: event.FolderID,
		ListID:   event.ListID,
		Reason:   event.Reason,
	})
	if err != nil {
		return err
	}

	targets := h.connections(event.UserID)
	if len(targets) == 0 {
		return nil
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer func() { _ = b.Close() }()
	for _, socket := range targets {
		_ = b.Broadcast(socket)
	}

	logger.FromContextOrDefault(ctx, h.logger).Debug("lists:updated broadcast",
		slog.String("user_id", event.UserID.String()),
		slog.Int("connections", len(targets)))
	return nil
}

// Run pings every connection until ctx is done, then closes them all.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case <-ticker.C:
			for _, socket := range h.all() {
				_ = socket.WritePing(nil)
			}
		}
	}
}

// Connections returns the number of open connections of userID.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

func (h *Hub) connections(userID uuid.UUID) []*gws.Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*gws.Conn, 0, len(h.conns[userID]))
	for socket := range h.conns[userID] {
		out = append(out, socket)
	}
	return out
}

func (h *Hub) all() []*gws.Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []*gws.Conn
	for _, set := range h.conns {
		for socket := range set {
			out = append(out, socket)
		}
	}
	return out
}

func (h *Hub) closeAll() {
	for _, socket := range h.all() {
		_ = socket.WriteClose(1001, []byte("server shutting down"))
	}
}

func userOf(socket *gws.Conn) (uuid.UUID, bool) {
	v, ok := socket.Session().Load(sessionUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
