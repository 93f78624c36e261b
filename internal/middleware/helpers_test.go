package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/noorshare/internal/model"
)

func newSessionManager() *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.NewWithCleanupInterval(0)
	return sm
}

type fakeUsers map[int64]model.User

func (f fakeUsers) GetUserByID(_ context.Context, id int64) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// sessionCookie runs fn inside a session and returns the resulting cookie.
func sessionCookie(t *testing.T, sm *scs.SessionManager, fn func(ctx context.Context)) *http.Cookie {
	t.Helper()
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == sm.Cookie.Name {
			return c
		}
	}
	t.Fatal("no session cookie written")
	return nil
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
