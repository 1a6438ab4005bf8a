package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFlashEngine(m *Messages, popped *[]Message) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/create", func(c *gin.Context) {
		m.Info(c, "course created")
		m.Error(c, "second message")
		c.Redirect(http.StatusSeeOther, "/list")
	})
	r.GET("/list", func(c *gin.Context) {
		*popped = m.Pop(c)
		c.Status(http.StatusOK)
	})
	return r
}

// carryCookies replays the last cookie of each name, as a browser would.
func carryCookies(from *httptest.ResponseRecorder, to *http.Request) {
	latest := map[string]*http.Cookie{}
	var order []string
	for _, cookie := range from.Result().Cookies() {
		if _, seen := latest[cookie.Name]; !seen {
			order = append(order, cookie.Name)
		}
		latest[cookie.Name] = cookie
	}
	for _, name := range order {
		to.AddCookie(latest[name])
	}
}

func TestMessagesRoundTripWithCookieStore(t *testing.T) {
	var popped []Message
	m := New(NewCookieStore([]byte("test-secret-test-secret-test-sec"), time.Minute), zap.NewNop())
	r := newFlashEngine(m, &popped)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/create", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/list", nil)
	carryCookies(w, listReq)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, listReq)

	require.Len(t, popped, 2)
	assert.Equal(t, Message{Level: LevelInfo, Text: "course created"}, popped[0])
	assert.Equal(t, Message{Level: LevelError, Text: "second message"}, popped[1])

	again := httptest.NewRequest(http.MethodGet, "/list", nil)
	carryCookies(w2, again)
	r.ServeHTTP(httptest.NewRecorder(), again)
	assert.Empty(t, popped)
}

func TestSeveralMessagesWriteOneCookie(t *testing.T) {
	var popped []Message
	m := New(NewCookieStore([]byte("test-secret-test-secret-test-sec"), time.Minute), nil)
	r := newFlashEngine(m, &popped)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/create", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionName, cookies[0].Name)
	assert.Len(t, w.Header().Values("Set-Cookie"), 1)
}

func TestDropSetCookieKeepsOtherCookies(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", sessionName+"=old; Path=/")
	h.Add("Set-Cookie", "other=1; Path=/")

	dropSetCookie(h, sessionName)

	assert.Equal(t, []string{"other=1; Path=/"}, h.Values("Set-Cookie"))
}

func TestPopWithoutCookie(t *testing.T) {
	var popped []Message
	m := New(NewCookieStore([]byte("another-secret"), time.Minute), nil)
	r := newFlashEngine(m, &popped)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/list", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, popped)
	assert.Empty(t, w.Result().Cookies())
}

func TestDecodeUnprefixedMessage(t *testing.T) {
	assert.Equal(t, Message{Level: LevelInfo, Text: "plain"}, decode("plain"))
	assert.Equal(t, Message{Level: LevelError, Text: "a:b"}, decode("error:a:b"))
}

func TestRedisStoreNewWithoutCookie(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	store := NewRedisStore(client, []byte("secret"), time.Minute)

	session, err := store.New(httptest.NewRequest(http.MethodGet, "/", nil), sessionName)
	require.NoError(t, err)
	assert.True(t, session.IsNew)
	assert.Empty(t, session.ID)
}

func TestRedisStoreRejectsForgedCookie(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	store := NewRedisStore(client, []byte("secret"), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "not-signed"})
	session, err := store.New(req, sessionName)
	require.Error(t, err)
	assert.True(t, session.IsNew)
}

func TestRedisStoreSaveReportsBackendErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewRedisStore(client, []byte("secret"), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := store.Get(req, sessionName)
	require.NoError(t, err)
	session.AddFlash("info:hello")

	w := httptest.NewRecorder()
	err = store.Save(req, w, session)
	require.Error(t, err)
	assert.Empty(t, w.Result().Cookies())
}
