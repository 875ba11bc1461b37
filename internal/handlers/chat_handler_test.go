package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
)

func newChatRouter(t *testing.T, dataDir string) *chi.Mux {
	t.Helper()

	chat, err := services.NewLocalChatService(dataDir)
	require.NoError(t, err)
	profiles, err := services.NewLocalProfileService(dataDir)
	require.NoError(t, err)

	h := NewChatHandler(chat, profiles)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := req.Header.Get("X-User")
			if user != "" {
				req = req.WithContext(middleware.WithUser(req.Context(), user, user+"@example.com"))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/chat", h.ListMessages)
	r.Post("/api/chat", h.PostMessage)

	return r
}

func TestPostMessage_DenormalizesSender(t *testing.T) {
	router := newChatRouter(t, t.TempDir())

	rec, env := doJSON(t, router, http.MethodPost, "/api/chat", "officer-1", models.PostMessageRequest{
		Text: "pothole on mg road cleared",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var msg models.ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	require.NotEmpty(t, msg.ID)
	require.Equal(t, "officer-1", msg.SenderID)
	// Fresh profile has no display name; the email local part stands in.
	require.Equal(t, "officer-1", msg.SenderName)
	require.Equal(t, "pothole on mg road cleared", msg.Text)
	require.False(t, msg.CreatedAt.IsZero())
}

func TestPostMessage_Validation(t *testing.T) {
	router := newChatRouter(t, t.TempDir())

	rec, env := doJSON(t, router, http.MethodPost, "/api/chat", "officer-1", models.PostMessageRequest{Text: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/chat", "officer-1", models.PostMessageRequest{
		Text: strings.Repeat("x", 501),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/chat", "", models.PostMessageRequest{Text: "hi"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMessages_NewestFirst(t *testing.T) {
	router := newChatRouter(t, t.TempDir())

	for _, text := range []string{"first", "second", "third"} {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/chat", "officer-1", models.PostMessageRequest{Text: text})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := doJSON(t, router, http.MethodGet, "/api/chat", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []*models.ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &messages))
	require.Len(t, messages, 3)
	require.Equal(t, "third", messages[0].Text)
	require.Equal(t, "first", messages[2].Text)
}
