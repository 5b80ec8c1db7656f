// Package sessionstore keeps gorilla sessions server-side. The cookie holds
// only the signed session id; values live in a Repository.
package sessionstore

import (
	"context"
	"encoding/base32"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/nfrund/storefront/internal/domain"
)

// Repository persists encoded session payloads.
type Repository interface {
	Load(ctx context.Context, id string) (string, error)
	Save(ctx context.Context, id, data string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// Store implements sessions.Store on a Repository.
type Store struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options
	repo    Repository
}

var _ sessions.Store = (*Store)(nil)

// New returns a Store whose cookies are signed and encrypted with keyPairs,
// as in sessions.NewCookieStore.
func New(repo Repository, maxAge time.Duration, keyPairs ...[]byte) *Store {
	s := &Store{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(maxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		repo: repo,
	}
	s.MaxAge(s.Options.MaxAge)
	return s
}

// MaxAge sets the maximum age for the store and the underlying cookie codecs.
func (s *Store) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, c := range s.Codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

// Get returns a cached session from the request registry.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns a session for name. A missing, tampered or expired cookie
// yields a fresh session with IsNew set.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, errCookie := r.Cookie(name)
	if errCookie != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		return session, err
	}
	if err := s.load(r.Context(), session); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return session, nil
		}
		return session, err
	}
	session.IsNew = false
	return session, nil
}

// Save persists the session and writes the id cookie. A negative MaxAge
// deletes the row and expires the cookie.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.repo.Delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Purge removes expired sessions.
func (s *Store) Purge(ctx context.Context, now time.Time) (int, error) {
	return s.repo.PurgeExpired(ctx, now)
}

func (s *Store) save(ctx context.Context, session *sessions.Session) error {
	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return err
	}
	expires := time.Now().Add(time.Duration(session.Options.MaxAge) * time.Second)
	return s.repo.Save(ctx, session.ID, encoded, expires)
}

func (s *Store) load(ctx context.Context, session *sessions.Session) error {
	data, err := s.repo.Load(ctx, session.ID)
	if err != nil {
		return err
	}
	return securecookie.DecodeMulti(session.Name(), data, &session.Values, s.Codecs...)
}
