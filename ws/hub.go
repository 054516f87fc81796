package ws

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/services"
	"github.com/igRoy3/SmartWasteManagement/utils"
)

// wsConn is the subset of *websocket.Conn the hub touches.
type wsConn interface {
	WriteJSON(v any) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Hub is the broadcast center. Clients join named groups; a publish
// reaches every connection in the group. The Run goroutine owns the
// group maps and performs every write, so connections never see
// concurrent WriteJSON calls.
type Hub struct {
	groups map[string]map[wsConn]bool
	conns  map[wsConn]map[string]bool

	broadcast   chan groupMessage
	direct      chan directMessage
	register    chan subscription
	unregister  chan wsConn
	subscribe   chan subscription
	unsubscribe chan subscription

	dropped atomic.Int64
	log     zerolog.Logger
}

type subscription struct {
	conn   wsConn
	groups []string
}

type groupMessage struct {
	group   string
	message map[string]any
}

type directMessage struct {
	conn    wsConn
	message map[string]any
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		groups:      make(map[string]map[wsConn]bool),
		conns:       make(map[wsConn]map[string]bool),
		broadcast:   make(chan groupMessage, 256),
		direct:      make(chan directMessage, 64),
		register:    make(chan subscription),
		unregister:  make(chan wsConn),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		log:         log.With().Str("component", "ws").Logger(),
	}
}

// Publish implements services.Broadcaster. It never blocks the caller:
// when the hub is saturated the event is dropped and counted.
func (h *Hub) Publish(group string, message map[string]any) {
	select {
	case h.broadcast <- groupMessage{group: group, message: message}:
	default:
		n := h.dropped.Add(1)
		h.log.Warn().Str("group", group).Int64("dropped_total", n).Msg("broadcast queue full, event dropped")
	}
}

// Run processes hub events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.conns[sub.conn] = make(map[string]bool)
			h.join(sub.conn, sub.groups)

		case conn := <-h.unregister:
			h.drop(conn)

		case sub := <-h.subscribe:
			if _, ok := h.conns[sub.conn]; ok {
				h.join(sub.conn, sub.groups)
			}

		case sub := <-h.unsubscribe:
			for _, g := range sub.groups {
				h.leave(sub.conn, g)
			}

		case msg := <-h.broadcast:
			for conn := range h.groups[msg.group] {
				h.write(conn, msg.message)
			}

		case msg := <-h.direct:
			if _, ok := h.conns[msg.conn]; ok {
				h.write(msg.conn, msg.message)
			}
		}
	}
}

func (h *Hub) join(conn wsConn, groups []string) {
	for _, g := range groups {
		if h.groups[g] == nil {
			h.groups[g] = make(map[wsConn]bool)
		}
		h.groups[g][conn] = true
		h.conns[conn][g] = true
	}
}

func (h *Hub) leave(conn wsConn, group string) {
	if set, ok := h.groups[group]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.groups, group)
		}
	}
	if memberships, ok := h.conns[conn]; ok {
		delete(memberships, group)
	}
}

func (h *Hub) drop(conn wsConn) {
	memberships, ok := h.conns[conn]
	if !ok {
		return
	}
	for g := range memberships {
		h.leave(conn, g)
	}
	delete(h.conns, conn)
	conn.Close()
}

func (h *Hub) write(conn wsConn, message map[string]any) {
	if err := conn.WriteJSON(message); err != nil {
		h.log.Debug().Err(err).Msg("ws write failed, dropping connection")
		h.drop(conn)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleUpdates serves /ws/updates. Every authenticated client joins the
// general report feed, its role feed and its personal group, then may
// subscribe to individual reports.
func (h *Hub) HandleUpdates(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	groups := []string{
		services.GroupReports,
		role + "_updates",
		services.UserGroup(userID),
	}
	h.register <- subscription{conn: conn, groups: groups}
	h.direct <- directMessage{conn: conn, message: map[string]any{
		"type":    "connection_established",
		"user_id": userID,
		"role":    role,
		"groups":  groups,
	}}

	go h.listen(conn)
}

// HandleDashboard serves /ws/dashboard for admins.
func (h *Hub) HandleDashboard(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == 0 || utils.CurrentRole(c) != entity.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	groups := []string{services.GroupDashboard, services.UserGroup(userID)}
	h.register <- subscription{conn: conn, groups: groups}
	h.direct <- directMessage{conn: conn, message: map[string]any{
		"type":   "connection_established",
		"groups": groups,
	}}

	go h.listen(conn)
}

// Client-to-server actions over an established connection.
type clientCommand struct {
	Action   string `json:"action"`
	ReportID uint   `json:"report_id"`
}

func (h *Hub) listen(conn wsConn) {
	defer func() { h.unregister <- conn }()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			h.direct <- directMessage{conn: conn, message: map[string]any{
				"type": "error", "message": "invalid message",
			}}
			continue
		}

		switch cmd.Action {
		case "ping":
			h.direct <- directMessage{conn: conn, message: map[string]any{"type": "pong"}}

		case "subscribe_report":
			if cmd.ReportID == 0 {
				continue
			}
			h.subscribe <- subscription{conn: conn, groups: []string{services.ReportGroup(cmd.ReportID)}}
			h.direct <- directMessage{conn: conn, message: map[string]any{
				"type":      "subscribed",
				"report_id": cmd.ReportID,
			}}

		case "unsubscribe_report":
			if cmd.ReportID == 0 {
				continue
			}
			h.unsubscribe <- subscription{conn: conn, groups: []string{services.ReportGroup(cmd.ReportID)}}

		default:
			h.direct <- directMessage{conn: conn, message: map[string]any{
				"type": "error", "message": "unknown action " + cmd.Action,
			}}
		}
	}
}
