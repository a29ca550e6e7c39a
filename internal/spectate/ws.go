package spectate

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/arena/internal/loop"
	"github.com/tomz197/arena/internal/loop/config"
)

const (
	writeWait     = 5 * time.Second
	viewerQueue   = 16
	readLimit     = 512
	formatMsgpack = "msgpack"
)

// Frame types sent to viewers.
const (
	FrameSnapshot = "snapshot"
	FrameEnded    = "ended"
)

// Frame is one message on the spectator feed.
type Frame struct {
	Type  string         `json:"type" msgpack:"type"`
	Match string         `json:"match" msgpack:"match"`
	State *loop.Snapshot `json:"state,omitempty" msgpack:"state,omitempty"`
}

func encodeFrame(f Frame, binary bool) ([]byte, error) {
	if binary {
		return msgpack.Marshal(f)
	}
	return json.Marshal(f)
}

// viewer is one websocket spectator.
type viewer struct {
	ws      *websocket.Conn
	send    chan []byte
	binary  bool
	gone    chan struct{}
	goneOne sync.Once
}

func newViewer(ws *websocket.Conn, binary bool) *viewer {
	return &viewer{
		ws:     ws,
		send:   make(chan []byte, viewerQueue),
		binary: binary,
		gone:   make(chan struct{}),
	}
}

// enqueue queues a frame without blocking; a full queue drops it.
func (v *viewer) enqueue(b []byte) bool {
	select {
	case v.send <- b:
		return true
	default:
		return false
	}
}

func (v *viewer) leave() {
	v.goneOne.Do(func() { close(v.gone) })
}

// writePump writes queued frames until the queue is closed, then says goodbye.
func (v *viewer) writePump() {
	defer v.ws.Close()
	msgType := websocket.TextMessage
	if v.binary {
		msgType = websocket.BinaryMessage
	}
	for msg := range v.send {
		_ = v.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := v.ws.WriteMessage(msgType, msg); err != nil {
			v.leave()
			for range v.send {
			}
			return
		}
	}
	_ = v.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = v.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match ended"))
}

// readPump discards anything the viewer sends and notices when it goes away.
// Spectators are read-only.
func (v *viewer) readPump() {
	defer v.leave()
	v.ws.SetReadLimit(readLimit)
	for {
		if _, _, err := v.ws.ReadMessage(); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// The landing page is served from another origin.
		return true
	},
}

// ServeWS streams one match: GET /ws?match=<id>[&format=msgpack]
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("match"))
	if err != nil {
		http.Error(w, "invalid match id", http.StatusBadRequest)
		return
	}
	m := h.lookup(id)
	if m == nil {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "match", id.String(), "error", err)
		return
	}

	v := newViewer(ws, r.URL.Query().Get("format") == formatMsgpack)
	h.metrics.AddViewers(1)
	h.log.Debugw("viewer joined", "match", id.String(), "remote", r.RemoteAddr, "binary", v.binary)

	go v.writePump()
	go v.readPump()
	go h.stream(m, v)
}

// stream sends a match's snapshots to a viewer at config.SpectateRate until
// the match ends, the viewer leaves or the hub closes.
func (h *Hub) stream(m *match, v *viewer) {
	defer func() {
		close(v.send)
		h.metrics.AddViewers(-1)
		h.log.Debugw("viewer left", "match", m.id.String())
	}()

	ticker := time.NewTicker(config.SpectateInterval)
	defer ticker.Stop()

	var last uint64
	for {
		ended := m.ended.Load()
		if seq := m.seq.Load(); seq != last {
			last = seq
			h.sendFrame(v, Frame{Type: FrameSnapshot, Match: m.id.String(), State: m.latest.Load()})
		}
		if ended {
			h.sendFrame(v, Frame{Type: FrameEnded, Match: m.id.String()})
			return
		}

		select {
		case <-ticker.C:
		case <-v.gone:
			return
		case <-h.done:
			return
		}
	}
}

func (h *Hub) sendFrame(v *viewer, f Frame) {
	b, err := encodeFrame(f, v.binary)
	if err != nil {
		h.log.Errorw("encode frame", "match", f.Match, "error", err)
		return
	}
	if !v.enqueue(b) {
		h.metrics.IncDropped()
	}
}
