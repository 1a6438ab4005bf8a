package flash

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "course_console:flash:"

// RedisStore is a sessions.Store keeping session values in Redis. The cookie
// only carries the signed session id.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
	ttl     time.Duration
	encoder securecookie.GobEncoder
}

// NewRedisStore builds a store whose entries expire after ttl.
func NewRedisStore(client *redis.Client, secret []byte, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisStore{
		client:  client,
		codecs:  securecookie.CodecsFromPairs(secret),
		options: cookieOptions(ttl),
		ttl:     ttl,
	}
}

// Get returns the session cached for the request or loads it.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie. A missing or
// expired entry yields a fresh session.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, cookie.Value, &session.ID, s.codecs...); err != nil {
		return session, err
	}

	raw, err := s.client.Get(r.Context(), s.key(session.ID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("redis get flash session: %w", err)
	}
	if err := s.encoder.Deserialize(raw, &session.Values); err != nil {
		return session, fmt.Errorf("decode flash session: %w", err)
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session values and refreshes the cookie. A negative MaxAge
// deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	ctx := r.Context()
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(ctx, s.key(session.ID)).Err(); err != nil {
				return fmt.Errorf("redis delete flash session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.store(ctx, session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode flash cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) store(ctx context.Context, session *sessions.Session) error {
	if len(session.Values) == 0 {
		if err := s.client.Del(ctx, s.key(session.ID)).Err(); err != nil {
			return fmt.Errorf("redis delete flash session: %w", err)
		}
		return nil
	}
	payload, err := s.encoder.Serialize(session.Values)
	if err != nil {
		return fmt.Errorf("encode flash session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set flash session: %w", err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}
