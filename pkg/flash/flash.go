// Package flash carries one-shot user notifications across redirects, such as
// "course created" after a successful submit or "failed to load course" when a
// detail page bounces back to the list.
package flash

import (
	"encoding/gob"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const sessionName = "course_console_flash"

func init() {
	gob.Register([]interface{}{})
}

// Level classifies a message for rendering.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Message is a single notification.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Messages adds and drains flash messages stored in a sessions.Store.
type Messages struct {
	store  sessions.Store
	logger *zap.Logger
}

// New wraps store. Storage failures are logged and never fail the request.
func New(store sessions.Store, logger *zap.Logger) *Messages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messages{store: store, logger: logger}
}

// NewCookieStore keeps flashes client-side in a signed cookie.
func NewCookieStore(secret []byte, ttl time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = cookieOptions(ttl)
	return store
}

func cookieOptions(ttl time.Duration) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Info queues an informational message.
func (m *Messages) Info(c *gin.Context, text string) {
	m.add(c, Message{Level: LevelInfo, Text: text})
}

// Error queues an error message.
func (m *Messages) Error(c *gin.Context, text string) {
	m.add(c, Message{Level: LevelError, Text: text})
}

func (m *Messages) add(c *gin.Context, msg Message) {
	session, err := m.store.Get(c.Request, sessionName)
	if err != nil {
		m.logger.Warn("flash session unreadable, starting fresh", zap.Error(err))
	}
	session.AddFlash(string(msg.Level) + ":" + msg.Text)
	dropSetCookie(c.Writer.Header(), sessionName)
	if err := session.Save(c.Request, c.Writer); err != nil {
		m.logger.Warn("flash save failed", zap.Error(err))
	}
}

// Pop drains queued messages. It must run before the response body is written.
func (m *Messages) Pop(c *gin.Context) []Message {
	session, err := m.store.Get(c.Request, sessionName)
	if err != nil {
		m.logger.Warn("flash session unreadable", zap.Error(err))
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	dropSetCookie(c.Writer.Header(), sessionName)
	if err := session.Save(c.Request, c.Writer); err != nil {
		m.logger.Warn("flash save failed", zap.Error(err))
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		text, ok := item.(string)
		if !ok {
			continue
		}
		out = append(out, decode(text))
	}
	return out
}

// dropSetCookie removes Set-Cookie headers for name written earlier in the
// request, so the header carries only the latest session state.
func dropSetCookie(h http.Header, name string) {
	values := h.Values("Set-Cookie")
	if len(values) == 0 {
		return
	}
	prefix := name + "="
	kept := values[:0:0]
	for _, v := range values {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
}

func decode(raw string) Message {
	for _, level := range []Level{LevelInfo, LevelError} {
		prefix := string(level) + ":"
		if len(raw) >= len(prefix) && raw[:len(prefix)] == prefix {
			return Message{Level: level, Text: raw[len(prefix):]}
		}
	}
	return Message{Level: LevelInfo, Text: raw}
}
