package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/notifications"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is sent by the host page.
type clientMessage struct {
	Type     string `json:"type"` // "navigate", "viewport" or "refresh"
	Page     string `json:"page,omitempty"`
	Viewport string `json:"viewport,omitempty"`
}

// serverMessage is pushed to the host page.
type serverMessage struct {
	Type  string                      `json:"type"` // "document", "reload", "toast" or "error"
	Frame *Frame                      `json:"frame,omitempty"`
	Toast *notifications.Notification `json:"toast,omitempty"`
	Error string                      `json:"error,omitempty"`
}

// Hub tracks the open preview sessions. It recompiles and pushes a fresh
// document when a project's files change and forwards notifications as
// toasts.
type Hub struct {
	source FileSource
	log    *zerolog.Logger

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewHub creates a hub compiling pages from source.
func NewHub(source FileSource, log *zerolog.Logger) *Hub {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Hub{
		source:   source,
		log:      log,
		sessions: make(map[*session]struct{}),
	}
}

type session struct {
	projectID  string
	controller *Controller
	conn       *websocket.Conn

	writeMu sync.Mutex
}

func (s *session) send(msg serverMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

// Serve upgrades the request and runs one session for projectID until the
// client disconnects. page and viewport set the initial state.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, projectID, page string, viewport Viewport) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("preview: websocket upgrade")
		return
	}
	defer conn.Close()

	s := &session{
		projectID:  projectID,
		controller: NewController(h.source, projectID),
		conn:       conn,
	}
	s.controller.Navigate(page)
	s.controller.SetViewport(viewport)

	h.register(s)
	defer h.unregister(s)

	ctx := r.Context()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("preview: websocket read")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(s, "invalid message format")
			continue
		}

		switch msg.Type {
		case "navigate":
			s.controller.Navigate(msg.Page)
		case "viewport":
			v, err := ParseViewport(msg.Viewport)
			if err != nil {
				h.sendError(s, err.Error())
				continue
			}
			s.controller.SetViewport(v)
		case "refresh":
		default:
			h.sendError(s, "unknown message type: "+msg.Type)
			continue
		}
		h.push(ctx, s, "document")
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
}

// Sessions returns the number of open sessions for projectID, or for all
// projects when projectID is empty.
func (h *Hub) Sessions(projectID string) int {
	return len(h.matching(projectID))
}

func (h *Hub) matching(projectID string) []*session {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*session
	for s := range h.sessions {
		if projectID == "" || s.projectID == projectID {
			out = append(out, s)
		}
	}
	return out
}

// FilesChanged pushes a recompiled document to every session of projectID.
func (h *Hub) FilesChanged(projectID string) {
	for _, s := range h.matching(projectID) {
		h.push(context.Background(), s, "reload")
	}
}

// Notify forwards n as a toast to the sessions of n.ProjectID, or to every
// session when it has no project.
func (h *Hub) Notify(_ context.Context, n notifications.Notification) {
	for _, s := range h.matching(n.ProjectID) {
		n := n
		if err := s.send(serverMessage{Type: "toast", Toast: &n}); err != nil {
			h.log.Debug().Err(err).Msg("preview: toast write")
		}
	}
}

func (h *Hub) push(ctx context.Context, s *session, kind string) {
	frame, err := s.controller.Render(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("project", s.projectID).Msg("preview: render")
		h.sendError(s, "could not load project files")
		return
	}
	if err := s.send(serverMessage{Type: kind, Frame: &frame}); err != nil {
		h.log.Debug().Err(err).Msg("preview: websocket write")
	}
}

func (h *Hub) sendError(s *session, message string) {
	if err := s.send(serverMessage{Type: "error", Error: message}); err != nil {
		h.log.Debug().Err(err).Msg("preview: websocket write error")
	}
}
