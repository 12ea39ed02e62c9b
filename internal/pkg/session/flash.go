package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const flashSessionName = "timesheet_flash"

// FlashStore carries one-shot messages across a redirect.
type FlashStore interface {
	AddFlash(w http.ResponseWriter, r *http.Request, message string) error
	// Flashes returns and clears the pending messages.
	Flashes(w http.ResponseWriter, r *http.Request) ([]string, error)
}

type CookieFlashStore struct {
	store *sessions.CookieStore
}

func NewCookieFlashStore(secret string, maxAge int, secure bool) *CookieFlashStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieFlashStore{store: store}
}

func (s *CookieFlashStore) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	// A cookie that no longer decodes (rotated secret) yields a fresh session.
	sess, _ := s.store.Get(r, flashSessionName)
	sess.AddFlash(message)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to save flash session: %w", err)
	}
	return nil
}

func (s *CookieFlashStore) Flashes(w http.ResponseWriter, r *http.Request) ([]string, error) {
	sess, _ := s.store.Get(r, flashSessionName)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	if err := sess.Save(r, w); err != nil {
		return nil, fmt.Errorf("failed to save flash session: %w", err)
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			messages = append(messages, m)
		}
	}
	return messages, nil
}
