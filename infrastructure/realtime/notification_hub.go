package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"hootsuite-publisher/domain/model"
)

const recentNotices = 50

// NoticeEvent is the SSE payload for a publisher notice.
type NoticeEvent struct {
	Type string `json:"type"`
	model.Notice
	At time.Time `json:"at"`
}

// NotificationHub fans publisher notices out to SSE subscribers and keeps
// the latest ones for polling clients.
type NotificationHub struct {
	mu     sync.RWMutex
	subs   map[chan NoticeEvent]struct{}
	recent []NoticeEvent
	now    func() time.Time
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{subs: make(map[chan NoticeEvent]struct{}), now: time.Now}
}

// Notify never blocks; slow subscribers miss events.
func (h *NotificationHub) Notify(notice model.Notice) {
	evt := NoticeEvent{Type: "notice", Notice: notice, At: h.now().UTC()}

	h.mu.Lock()
	h.recent = append(h.recent, evt)
	if len(h.recent) > recentNotices {
		h.recent = h.recent[len(h.recent)-recentNotices:]
	}
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	h.mu.Unlock()
}

// Recent returns the retained notices, oldest first.
func (h *NotificationHub) Recent() []NoticeEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]NoticeEvent, len(h.recent))
	copy(out, h.recent)
	return out
}

// Serve registers an SSE stream for the authenticated caller (user_id set by middleware).
func (h *NotificationHub) Serve(c *gin.Context) {
	if c.GetString("user_id") == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan NoticeEvent, 8)
	h.addSubscriber(ch)
	defer h.removeSubscriber(ch)

	// Initial comment to keep connection open
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: notice\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *NotificationHub) addSubscriber(ch chan NoticeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
}

func (h *NotificationHub) removeSubscriber(ch chan NoticeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}
