package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"helpnow/internal"
	"helpnow/internal/auth"
	"helpnow/internal/memstore"
	"helpnow/internal/volunteer"
	"helpnow/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	store   *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		Environment:    "development",
		ServerPort:     0,
		AllowedOrigins: []string{"http://localhost:5173"},
	}

	authenticator, err := auth.New(auth.Options{
		Secret:   []byte("server-test-secret"),
		HashKey:  securecookie.GenerateRandomKey(32),
		BlockKey: securecookie.GenerateRandomKey(32),
	})
	require.NoError(t, err)

	store := memstore.New()
	svc, err := New(config, logger, authenticator, volunteer.NewService(logger, store, store))
	require.NoError(t, err)

	return &testServer{handler: svc.Handler(), store: store}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T, email string) *http.Cookie {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/jwt", types.Identity{Email: email})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == internal.COOKIE_TOKEN_NAME {
			return c
		}
	}

	t.Fatal("no token cookie issued")
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func needBody(title string, slots int, deadline time.Time, organizer string) types.VolunteerNeed {
	return types.VolunteerNeed{
		PostTitle:        title,
		VolunteersNeeded: slots,
		Deadline:         deadline,
		Organizer:        types.Person{Name: "Org", Email: organizer},
	}
}

func (ts *testServer) createNeed(t *testing.T, need types.VolunteerNeed) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/volunteerNeed", need)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody[types.InsertResult](t, rec)
	require.True(t, result.Acknowledged)
	return result.InsertedID
}

func (ts *testServer) slots(t *testing.T, id string) int {
	t.Helper()
	rec := ts.do(t, http.MethodGet, "/volunteerNeed/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody[types.VolunteerNeed](t, rec).VolunteersNeeded
}

var deadline = time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

func TestHome(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HelpNow-Platform server is running...", rec.Body.String())
}

func TestGatedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/volunteerNeeds/org@example.com",
		"/my-request/vol@example.com",
		"/volunteer-requests/org@example.com",
	} {
		t.Run(path, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized access", decodeBody[messageResponse](t, rec).Message)

			rec = ts.do(t, http.MethodGet, path, nil, &http.Cookie{Name: internal.COOKIE_TOKEN_NAME, Value: "garbage"})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestGatedRoutesRejectOtherIdentity(t *testing.T) {
	ts := newTestServer(t)
	ts.createNeed(t, needBody("Food Drive", 2, deadline, "org@example.com"))
	cookie := ts.login(t, "someone@example.com")

	for _, path := range []string{
		"/volunteerNeeds/org@example.com",
		"/my-request/vol@example.com",
		"/volunteer-requests/org@example.com",
	} {
		t.Run(path, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, path, nil, cookie)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			msg := decodeBody[messageResponse](t, rec)
			assert.Equal(t, "forbidden access", msg.Message)
			assert.NotContains(t, rec.Body.String(), "Food Drive")
		})
	}
}

func TestGatedRoutesReturnOwnData(t *testing.T) {
	ts := newTestServer(t)
	needID := ts.createNeed(t, needBody("Food Drive", 2, deadline, "org@example.com"))
	ts.createNeed(t, needBody("Other", 2, deadline, "else@example.com"))

	rec := ts.do(t, http.MethodPost, "/volunteerRequest", types.VolunteerRequest{
		VolunteerID: needID,
		Organizer:   types.Person{Email: "org@example.com"},
		Volunteer:   types.Person{Email: "vol@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	orgCookie := ts.login(t, "org@example.com")
	volCookie := ts.login(t, "vol@example.com")

	rec = ts.do(t, http.MethodGet, "/volunteerNeeds/org@example.com", nil, orgCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	needs := decodeBody[[]types.VolunteerNeed](t, rec)
	require.Len(t, needs, 1)
	assert.Equal(t, "Food Drive", needs[0].PostTitle)

	rec = ts.do(t, http.MethodGet, "/volunteer-requests/org@example.com", nil, orgCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]types.VolunteerRequest](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/my-request/vol@example.com", nil, volCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	requests := decodeBody[[]types.VolunteerRequest](t, rec)
	require.Len(t, requests, 1)
	assert.Equal(t, types.RequestStatusRequested, requests[0].Status)
}

func TestGatedRoutesAcceptPlusAddressedEmail(t *testing.T) {
	ts := newTestServer(t)
	needID := ts.createNeed(t, needBody("Food Drive", 2, deadline, "org+events@example.com"))

	rec := ts.do(t, http.MethodPost, "/volunteerRequest", types.VolunteerRequest{
		VolunteerID: needID,
		Organizer:   types.Person{Email: "org+events@example.com"},
		Volunteer:   types.Person{Email: "vol+tag@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	volCookie := ts.login(t, "vol+tag@example.com")
	rec = ts.do(t, http.MethodGet, "/my-request/vol+tag@example.com", nil, volCookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody[[]types.VolunteerRequest](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/my-request/vol%2Btag@example.com", nil, volCookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	orgCookie := ts.login(t, "org+events@example.com")
	rec = ts.do(t, http.MethodGet, "/volunteerNeeds/org+events@example.com", nil, orgCookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody[[]types.VolunteerNeed](t, rec), 1)
}

func TestGatedRoutesDecodePathOnce(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "vol@example.com")

	rec := ts.do(t, http.MethodGet, "/my-request/vol%2540example.com", nil, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJWTRejectsMissingEmail(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/jwt", map[string]string{"name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogoutClearsCookie(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, "vol@example.com")

	rec := ts.do(t, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[successResponse](t, rec).Success)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, internal.COOKIE_TOKEN_NAME, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestRequestLifecycleAdjustsCounter(t *testing.T) {
	ts := newTestServer(t)
	needID := ts.createNeed(t, needBody("Food Drive", 3, deadline, "org@example.com"))

	rec := ts.do(t, http.MethodPost, "/volunteerRequest", types.VolunteerRequest{
		VolunteerID: needID,
		Organizer:   types.Person{Email: "org@example.com"},
		Volunteer:   types.Person{Email: "vol@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	requestID := decodeBody[types.InsertResult](t, rec).InsertedID
	assert.Equal(t, 2, ts.slots(t, needID))

	status := "accepted"
	rec = ts.do(t, http.MethodPatch, "/volunteer-requests/"+requestID, types.RequestStatusUpdate{Status: &status})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), decodeBody[types.UpdateResult](t, rec).MatchedCount)

	rec = ts.do(t, http.MethodDelete, "/volunteerRequest/"+requestID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decodeBody[types.DeleteResult](t, rec).DeletedCount)
	assert.Equal(t, 3, ts.slots(t, needID))
}

func TestRequestRejectedWhenNeedIsFull(t *testing.T) {
	ts := newTestServer(t)
	needID := ts.createNeed(t, needBody("Food Drive", 0, deadline, "org@example.com"))

	rec := ts.do(t, http.MethodPost, "/volunteerRequest", types.VolunteerRequest{
		VolunteerID: needID,
		Organizer:   types.Person{Email: "org@example.com"},
		Volunteer:   types.Person{Email: "vol@example.com"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, ts.slots(t, needID))
}

func TestPatchRequestStatusRequiresFields(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPatch, "/volunteer-requests/anything", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMissingNeedReturnsEmptyBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/volunteerNeed/missing", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestPutUnknownNeedUpserts(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/volunteerNeed/new-need-id", needBody("Beach Cleanup", 5, deadline, "org@example.com"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody[types.UpdateResult](t, rec)
	assert.Equal(t, int64(1), result.UpsertedCount)
	assert.Equal(t, "new-need-id", result.UpsertedID)

	rec = ts.do(t, http.MethodGet, "/volunteerNeed/new-need-id", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Beach Cleanup", decodeBody[types.VolunteerNeed](t, rec).PostTitle)
}

func TestPutNeedKeepsOmittedFields(t *testing.T) {
	ts := newTestServer(t)

	need := needBody("Food Drive", 5, deadline, "org@example.com")
	need.Description = "bring gloves"
	need.Location = "Dhaka"
	needID := ts.createNeed(t, need)

	rec := ts.do(t, http.MethodPut, "/volunteerNeed/"+needID, map[string]any{
		"postTitle": "Food Drive (moved)",
		"deadline":  deadline.Add(48 * time.Hour),
		"organizer": types.Person{Name: "Org", Email: "org@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), decodeBody[types.UpdateResult](t, rec).MatchedCount)

	rec = ts.do(t, http.MethodGet, "/volunteerNeed/"+needID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[types.VolunteerNeed](t, rec)
	assert.Equal(t, "Food Drive (moved)", got.PostTitle)
	assert.Equal(t, 5, got.VolunteersNeeded)
	assert.Equal(t, "bring gloves", got.Description)
	assert.Equal(t, "Dhaka", got.Location)

	rec = ts.do(t, http.MethodPost, "/volunteerRequest", types.VolunteerRequest{
		VolunteerID: needID,
		Organizer:   types.Person{Email: "org@example.com"},
		Volunteer:   types.Person{Email: "vol@example.com"},
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, ts.slots(t, needID))
}

func TestPutNeedRejectsEmptyBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/volunteerNeed/some-id", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMissingDocumentsIsZeroEffect(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/volunteerNeed/missing", "/volunteerRequest/missing"} {
		rec := ts.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		result := decodeBody[types.DeleteResult](t, rec)
		assert.True(t, result.Acknowledged)
		assert.Equal(t, int64(0), result.DeletedCount)
	}
}

func TestSearchPosts(t *testing.T) {
	ts := newTestServer(t)
	for _, title := range []string{"Food Drive", "FOOD bank", "Park cleanup"} {
		ts.createNeed(t, needBody(title, 1, deadline, "org@example.com"))
	}

	rec := ts.do(t, http.MethodGet, "/searchPosts?search=food", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var titles []string
	for _, need := range decodeBody[[]types.VolunteerNeed](t, rec) {
		titles = append(titles, need.PostTitle)
	}
	assert.ElementsMatch(t, []string{"Food Drive", "FOOD bank"}, titles)

	rec = ts.do(t, http.MethodGet, "/searchPosts?search=.%2A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]types.VolunteerNeed](t, rec))
}

func TestListNeedsSortedByDeadline(t *testing.T) {
	ts := newTestServer(t)
	ts.createNeed(t, needBody("third", 1, deadline.Add(72*time.Hour), "org@example.com"))
	ts.createNeed(t, needBody("first", 1, deadline, "org@example.com"))
	ts.createNeed(t, needBody("second", 1, deadline.Add(24*time.Hour), "org@example.com"))

	rec := ts.do(t, http.MethodGet, "/volunteerNeeds", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	needs := decodeBody[[]types.VolunteerNeed](t, rec)
	require.Len(t, needs, 3)
	assert.Equal(t, "first", needs[0].PostTitle)
	assert.Equal(t, "second", needs[1].PostTitle)
	assert.Equal(t, "third", needs[2].PostTitle)
}

func TestCreateNeedValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/volunteerNeed", map[string]any{"volunteersNeeded": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[messageResponse](t, rec).Message, "postTitle is required")

	req := httptest.NewRequest(http.MethodPost, "/volunteerNeed", bytes.NewBufferString("{not json"))
	out := httptest.NewRecorder()
	ts.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestTrailingSlashRedirects(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/volunteerNeeds/", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/volunteerNeeds", rec.Header().Get("Location"))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/nope/nope/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSAllowsConfiguredOriginWithCredentials(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/volunteerNeeds", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
