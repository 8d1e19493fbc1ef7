package diary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dnevnik-backend/lib/scrapers/schoolsby"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const portalWeekOne = `
<html><body>
<a class="next" next_week_id="2026-01-19">→</a>
<div class="db_days" style="display: none">
  <div class="db_day">
    <table class="db_table">
      <tbody><tr><td class="lesson"><span>Preloaded decoy</span></td></tr></tbody>
    </table>
  </div>
</div>
<div class="db_days">
  <div class="db_day">
    <table class="db_table">
      <thead><tr><th class="lesson">Понедельник</th></tr></thead>
      <tbody>
        <tr>
          <td class="lesson"><span>1. Алгебра</span></td>
          <td><div class="ht-text">§12, упр. 3</div></td>
          <td class="mark"><strong>8</strong></td>
        </tr>
        <tr>
          <td class="lesson"><span>2. Физика</span></td>
          <td></td>
          <td class="mark"></td>
        </tr>
      </tbody>
    </table>
  </div>
</div>
</body></html>`

const portalWeekBlockless = `
<html><body><a class="next" next_week_id="2026-01-26">→</a></body></html>`

// fakePortal serves just enough of the portal to log in and walk a
// two-week term, the second week of which has no schedule block.
func fakePortal(t *testing.T, emptyTerm bool) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<html><body><form><input name="csrfmiddlewaretoken" value="tok"></form></body></html>`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc123", Path: "/"})
		if r.FormValue("password") != "hunter2" {
			fmt.Fprint(w, `<html><body>Пожалуйста, введите правильные имя пользователя и пароль.</body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body>ok</body></html>`)
	})
	mux.HandleFunc("/m/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a class="u_name" href="/pupil/1106490/">Ефим</a></body></html>`)
	})
	mux.HandleFunc("/pupil/1106490/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="title_box"><h1>Ерошенко Ефим, 10 "Б" класс</h1></div></body></html>`)
	})

	firstWeek := portalWeekOne
	if emptyTerm {
		firstWeek = portalWeekBlockless
	}
	mux.HandleFunc("/m/pupil/1106490/dnevnik/quarter/90/week/2026-01-12", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, firstWeek)
	})
	mux.HandleFunc("/m/pupil/1106490/dnevnik/quarter/90/week/2026-01-19", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, portalWeekBlockless)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testRouter(t *testing.T, emptyTerm bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	portal := fakePortal(t, emptyTerm)

	svc := NewService(Config{
		AuthBaseUrl:    portal.URL,
		SchoolBaseUrl:  portal.URL,
		QuarterId:      90,
		StartWeek:      "2026-01-12",
		RequestDelayMs: 1,
		TimeoutSeconds: 5,
	})

	router := gin.New()
	RegisterRoutes(router, svc)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	router := testRouter(t, false)
	rec := doRequest(t, router, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message": "pong"}`, rec.Body.String())
}

func TestLoginEndpoint(t *testing.T) {
	router := testRouter(t, false)
	rec := doRequest(t, router, http.MethodPost, "/login", `{"username": "efim", "password": "hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var session schoolsby.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.Equal(t, "abc123", session.SessionId)
	require.Equal(t, "1106490", session.PupilId)
	require.Equal(t, "Ерошенко Ефим", session.Profile.FullName)
}

func TestLoginEndpointBadBody(t *testing.T) {
	router := testRouter(t, false)

	rec := doRequest(t, router, http.MethodPost, "/login", `{"username": "efim"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/login", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	router := testRouter(t, false)
	rec := doRequest(t, router, http.MethodPost, "/login", `{"username": "efim", "password": "wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParse(t *testing.T) {
	router := testRouter(t, false)
	rec := doRequest(t, router, http.MethodGet, "/parse?sessionid=abc123&pupilid=1106490", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Weeks []schoolsby.StructuredWeek `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Weeks, 1)

	week := body.Weeks[0]
	require.Equal(t, "2026-01-12", week.Monday)
	require.Len(t, week.Days, 1)
	require.Equal(t, "2026-01-12", week.Days[0].Date)
	require.Equal(t, "Понедельник", week.Days[0].Name)
	require.Len(t, week.Days[0].Lessons, 2)

	algebra := week.Days[0].Lessons[0]
	require.Equal(t, "Алгебра", algebra.Subject)
	require.NotNil(t, algebra.Mark)
	require.Equal(t, "8", *algebra.Mark)
	require.NotNil(t, algebra.Homework)
	require.Equal(t, "§12, упр. 3", *algebra.Homework)

	physics := week.Days[0].Lessons[1]
	require.Equal(t, "Физика", physics.Subject)
	require.Nil(t, physics.Mark)
	require.Nil(t, physics.Homework)
}

func TestParseMissingParams(t *testing.T) {
	router := testRouter(t, false)

	rec := doRequest(t, router, http.MethodGet, "/parse", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/parse?sessionid=abc123", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestParseNoData(t *testing.T) {
	router := testRouter(t, true)
	rec := doRequest(t, router, http.MethodGet, "/parse?sessionid=abc123&pupilid=1106490", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIcalFeed(t *testing.T) {
	router := testRouter(t, false)
	rec := doRequest(t, router, http.MethodGet, "/ical?sessionid=abc123&pupilid=1106490", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")

	feed := rec.Body.String()
	require.Contains(t, feed, "BEGIN:VCALENDAR")
	require.Contains(t, feed, "SUMMARY:Алгебра [8]")
	require.Contains(t, feed, "END:VCALENDAR")
}

func TestQuarterErrorStatus(t *testing.T) {
	status, _ := quarterErrorStatus(context.DeadlineExceeded)
	require.Equal(t, http.StatusGatewayTimeout, status)

	status, _ = quarterErrorStatus(fmt.Errorf("%w: week id %q", schoolsby.ErrStructure, "garbage"))
	require.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = quarterErrorStatus(fmt.Errorf("boom"))
	require.Equal(t, http.StatusInternalServerError, status)
}
