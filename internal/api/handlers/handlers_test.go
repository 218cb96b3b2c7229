package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/diary/internal/auth"
	"github.com/isdelr/diary/internal/models"
	"github.com/isdelr/diary/internal/services"
	"github.com/isdelr/diary/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("database is locked")

type fakeUsers struct {
	user models.User
	err  error
}

func (f *fakeUsers) Register(ctx context.Context, email, password string) (models.User, error) {
	return f.user, f.err
}

func (f *fakeUsers) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	return f.user, f.err
}

type fakeCards struct {
	card  models.Card
	cards []models.Card
	err   error

	createdFor string
}

func (f *fakeCards) CreateCard(ctx context.Context, ownerEmail, title, subtitle, text string) (models.Card, error) {
	f.createdFor = ownerEmail
	return f.card, f.err
}

func (f *fakeCards) ListCards(ctx context.Context, ownerEmail string) ([]models.Card, error) {
	return f.cards, f.err
}

func (f *fakeCards) GetCard(ctx context.Context, id int64, ownerEmail string) (models.Card, error) {
	return f.card, f.err
}

type fakeEvents struct {
	recorded []string
	limit    int
	err      error
}

func (f *fakeEvents) Record(ctx context.Context, userEmail, eventType, message string) error {
	f.recorded = append(f.recorded, eventType)
	return f.err
}

func (f *fakeEvents) Recent(ctx context.Context, userEmail string, limit int) ([]models.Event, error) {
	f.limit = limit
	return nil, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func loadViews(t *testing.T) *web.Views {
	t.Helper()
	v, err := web.Load()
	require.NoError(t, err)
	return v
}

// withSession puts session claims on r as RequireSession would.
func withSession(r *http.Request, email string) *http.Request {
	claims := &auth.Claims{Email: email}
	return r.WithContext(context.WithValue(r.Context(), auth.SessionClaimsKey, claims))
}

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestCardHandler_List_StoreFailureIs500(t *testing.T) {
	h := NewCardHandler(&fakeCards{err: errStore}, &fakeEvents{}, loadViews(t))

	rec := httptest.NewRecorder()
	h.List(rec, withSession(httptest.NewRequest(http.MethodGet, "/cards", nil), "a@x.com"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), errStore.Error())
}

func TestCardHandler_Get_NotFoundRedirects(t *testing.T) {
	h := NewCardHandler(&fakeCards{err: services.ErrNotFound}, &fakeEvents{}, loadViews(t))

	r := chi.NewRouter()
	r.Get("/cards/{id}", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/cards/5", nil), "a@x.com"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, CardsPath, rec.Header().Get("Location"))
}

func TestCardHandler_WithoutClaimsRedirectsToLogin(t *testing.T) {
	h := NewCardHandler(&fakeCards{}, &fakeEvents{}, loadViews(t))

	rec := httptest.NewRecorder()
	h.New(rec, httptest.NewRequest(http.MethodGet, "/cards/new", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestCardHandler_Create_EventFailureIsNotFatal(t *testing.T) {
	cards := &fakeCards{card: models.Card{ID: 1, Title: "T"}}
	events := &fakeEvents{err: errStore}
	h := NewCardHandler(cards, events, loadViews(t))

	rec := httptest.NewRecorder()
	req := postForm("/cards", url.Values{"title": {"T"}, "subtitle": {"S"}, "text": {"B"}, "owner_email": {"b@x.com"}})
	h.Create(rec, withSession(req, "a@x.com"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, CardsPath, rec.Header().Get("Location"))
	assert.Equal(t, "a@x.com", cards.createdFor)
	assert.Equal(t, []string{models.EventCardCreated}, events.recorded)
}

func TestAuthHandler_Login_StoreFailureIs500(t *testing.T) {
	sessions := auth.NewManager([]byte("k"), time.Hour, false)
	h := NewAuthHandler(&fakeUsers{err: errStore}, &fakeEvents{}, sessions, loadViews(t))

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/", url.Values{"email": {"a@x.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	sessions := auth.NewManager([]byte("k"), time.Hour, false)
	events := &fakeEvents{}
	h := NewAuthHandler(&fakeUsers{user: models.User{ID: 1, Email: "a@x.com"}}, events, sessions, loadViews(t))

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/", url.Values{"email": {"a@x.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, []string{models.EventLogin}, events.recorded)
}

func TestAuthHandler_Login_InvalidCredentialsRecordsFailure(t *testing.T) {
	sessions := auth.NewManager([]byte("k"), time.Hour, false)
	events := &fakeEvents{}
	h := NewAuthHandler(&fakeUsers{err: services.ErrInvalidCredentials}, events, sessions, loadViews(t))

	rec := httptest.NewRecorder()
	h.Login(rec, postForm("/", url.Values{"email": {"a@x.com"}, "password": {"bad"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInvalidCredentials)
	assert.Equal(t, []string{models.EventLoginFailed}, events.recorded)
}

func TestAuthHandler_Register_StoreFailureIs500(t *testing.T) {
	sessions := auth.NewManager([]byte("k"), time.Hour, false)
	h := NewAuthHandler(&fakeUsers{err: errStore}, &fakeEvents{}, sessions, loadViews(t))

	rec := httptest.NewRecorder()
	h.Register(rec, postForm("/register", url.Values{"email": {"a@x.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthHandler_Unavailable(t *testing.T) {
	h := NewHealthHandler(fakePinger{err: errStore})

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestEventHandler_GetRecent_PassesLimitThrough(t *testing.T) {
	cases := map[string]int{
		"/activity":           0,
		"/activity?limit=abc": 0,
		"/activity?limit=-3":  -3,
		"/activity?limit=5":   5,
	}
	for target, want := range cases {
		events := &fakeEvents{}
		h := NewEventHandler(events, loadViews(t))

		rec := httptest.NewRecorder()
		h.GetRecent(rec, withSession(httptest.NewRequest(http.MethodGet, target, nil), "a@x.com"))

		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, want, events.limit, target)
	}
}
