package echoapi_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/user"
	"github.com/trezcool/onestop/testutil"
)

func Test_agendaApi(t *testing.T) {
	app := setup(t)
	alice := testutil.CreateUser(t, app.store, "as1899", "alice@example.com", "password")
	bob := testutil.CreateUser(t, app.store, "bj1234", "bobjohnson@example.com", "password")
	e1 := testutil.CreateEntry(t, app.store, "1", "as1899", "2024-10-29", "10:00 AM", "SWEN 444 class canceled", calendar.CategoryAnnouncement)
	e2 := testutil.CreateEntry(t, app.store, "2", "as1899", "2024-10-28", "10:00 AM", "Grades posted", calendar.CategoryGrades)
	e3 := testutil.CreateEntry(t, app.store, "3", "as1899", "2024-10-29", "2:00 PM", "New assignment posted", calendar.CategoryAssignment)
	token := app.token(t, alice)

	app.run(t, []httpTest{
		{name: "auth required", path: "/v1/agenda", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "agenda", path: "/v1/agenda", token: token,
			wantData: marshalObj(t, []calendar.AgendaDay{
				{Day: "2024-10-28", Entries: []calendar.Entry{e2}},
				{Day: "2024-10-29", Entries: []calendar.Entry{e1, e3}},
			}),
		},
		{name: "empty agenda", path: "/v1/agenda", token: app.token(t, bob), wantData: marshalList(t)},
		{
			name: "marks", path: "/v1/agenda/marks?user_id=as1899", token: app.token(t, bob),
			wantData: marshalObj(t, map[string]calendar.DayMarks{
				"2024-10-28": {Marked: true, Dots: []calendar.Dot{{Key: "2", Color: calendar.ColorGrades}}},
				"2024-10-29": {Marked: true, Dots: []calendar.Dot{
					{Key: "1", Color: calendar.ColorAnnouncement},
					{Key: "3", Color: calendar.ColorAssignment},
				}},
			}),
		},
		{
			name: "ics unknown user", path: "/v1/agenda.ics?user_id=lol", token: token,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: user.ErrNotFound.Error()}),
		},
	})

	t.Run("ics", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/agenda.ics", token)
		app.do(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="agenda.ics"`, rec.Header().Get("Content-Disposition"))

		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
		assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"))
		assert.Contains(t, body, "UID:1@as1899")
	})
}
