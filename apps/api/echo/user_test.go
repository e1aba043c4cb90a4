package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/onestop/apps/api/echo"
	"github.com/trezcool/onestop/core/user"
	"github.com/trezcool/onestop/testutil"
)

func Test_userApi_register(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.store, "as1899", "alice@example.com", "password")

	body := func(nu user.NewUser) []byte { return marshalObj(t, nu) }

	app.run(t, []httpTest{
		{
			name: "empty", method: http.MethodPost, path: "/v1/users/register", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "invalid role", method: http.MethodPost, path: "/v1/users/register",
			body:     body(user.NewUser{Email: "bob@example.com", Password: "password", Role: "ADMIN"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"role": "invalid role"}),
		},
		{
			name: "duplicate email", method: http.MethodPost, path: "/v1/users/register",
			body:     body(user.NewUser{Email: "Alice@Example.com", Password: "password"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{
			name: "duplicate id", method: http.MethodPost, path: "/v1/users/register",
			body:     body(user.NewUser{ID: "as1899", Email: "carol@example.com", Password: "password"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"user_id": user.ErrIDExists.Error()}),
		},
		{
			name: "duplicate derived id", method: http.MethodPost, path: "/v1/users/register",
			body:     body(user.NewUser{Email: "as1899@other.org", Password: "password"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"user_id": user.ErrIDExists.Error()}),
		},
	})

	t.Run("registered", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body(user.NewUser{
			Name: "Bob", SecondName: "Johnson", Email: "bobjohnson@example.com", Password: "password", Role: "faculty",
		}))
		app.do(req, rec)
		assert.Equal(t, http.StatusCreated, rec.Code)

		bob, err := app.store.UserByEmail("bobjohnson@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "bobjohnson", bob.ID)
		assert.Equal(t, user.RoleFaculty, bob.Role)
		checkCodeAndData(t, httpTest{wantCode: http.StatusCreated, wantData: marshalObj(t, bob)}, rec)
		assert.NotContains(t, rec.Body.String(), "password")

		users, _ := app.store.Users()
		assert.Len(t, users, 2)
	})
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	alice := testutil.CreateUser(t, app.store, "as1899", "alice@example.com", "password")

	_, err := app.store.ImportUser(user.User{ID: "nh0001", Email: "nohash@example.com"})
	assert.NoError(t, err)

	failed := marshalObj(t, httpErr{Error: "authentication failed"})
	login := func(email, pwd string) []byte { return marshalObj(t, user.LoginUser{Email: email, Password: pwd}) }

	app.run(t, []httpTest{
		{
			name: "empty", method: http.MethodPost, path: "/v1/users/login", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{name: "unknown email", method: http.MethodPost, path: "/v1/users/login", body: login("lol@example.com", "password"), wantCode: http.StatusBadRequest, wantData: failed},
		{name: "wrong password", method: http.MethodPost, path: "/v1/users/login", body: login("alice@example.com", "lol"), wantCode: http.StatusBadRequest, wantData: failed},
		{name: "no password hash", method: http.MethodPost, path: "/v1/users/login", body: login("nohash@example.com", "password"), wantCode: http.StatusBadRequest, wantData: failed},
	})

	_, ok := app.store.CurrentUser()
	assert.False(t, ok)

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login", login("alice@example.com", "password"))
		app.do(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string          `json:"token"`
			User  json.RawMessage `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		assert.NotEmpty(t, resp.Token)
		ok, err := jsonBytesEqual(resp.User, marshalObj(t, alice))
		assert.NoError(t, err)
		assert.True(t, ok)

		claims := new(echoapi.Claims)
		_, _, err = new(jwt.Parser).ParseUnverified(resp.Token, claims)
		assert.NoError(t, err)
		assert.Equal(t, "as1899", claims.Subject)
		assert.Equal(t, "Agenda", claims.Audience)

		usr, ok := app.store.CurrentUser()
		assert.True(t, ok)
		assert.Equal(t, alice.ID, usr.ID)

		// token is usable
		req, rec = newAuthRequest(http.MethodGet, "/v1/users/me", resp.Token)
		app.do(req, rec)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, alice)}, rec)
	})
}

func Test_userApi_logout(t *testing.T) {
	app := setup(t)
	alice := testutil.CreateUser(t, app.store, "as1899", "alice@example.com", "password")
	assert.NoError(t, app.store.SetCurrentUser("as1899"))

	app.run(t, []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/v1/users/logout", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
	})
	_, ok := app.store.CurrentUser()
	assert.True(t, ok)

	app.run(t, []httpTest{
		{name: "logged out", method: http.MethodPost, path: "/v1/users/logout", token: app.token(t, alice), wantCode: http.StatusNoContent},
	})
	_, ok = app.store.CurrentUser()
	assert.False(t, ok)
}

func Test_userApi_exists(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.store, "as1899", "alice@example.com", "password")

	app.run(t, []httpTest{
		{name: "exists", path: "/v1/users/exists?email=alice@example.com", wantData: marshalObj(t, echoapi.ExistsResponse{Exists: true})},
		{name: "exists (case)", path: "/v1/users/exists?email=ALICE@example.com", wantData: marshalObj(t, echoapi.ExistsResponse{Exists: true})},
		{name: "unknown", path: "/v1/users/exists?email=lol@example.com", wantData: marshalObj(t, echoapi.ExistsResponse{})},
		{name: "no email", path: "/v1/users/exists", wantData: marshalObj(t, echoapi.ExistsResponse{})},
	})
}

func Test_userApi_retrieve(t *testing.T) {
	app := setup(t)
	alice := testutil.CreateUser(t, app.store, "as1899", "alice@example.com", "password")
	bob := testutil.CreateUser(t, app.store, "bj1234", "bobjohnson@example.com", "password", user.RoleFaculty)
	token := app.token(t, alice)

	app.run(t, []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "invalid token", path: "/v1/users", token: "lol", wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{name: "all", path: "/v1/users", token: token, wantData: marshalList(t, alice, bob)},
		{name: "roles", path: "/v1/users/roles", token: token, wantData: marshalObj(t, user.Roles)},
		{name: "me", path: "/v1/users/me", token: token, wantData: marshalObj(t, alice)},
		{name: "by id", path: "/v1/users/bj1234", token: token, wantData: marshalObj(t, bob)},
		{name: "unknown id", path: "/v1/users/lol", token: token, wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: user.ErrNotFound.Error()})},
	})

	t.Run("deleted token subject", func(t *testing.T) {
		ghost := user.User{ID: "ghost", Email: "ghost@example.com"}
		app.run(t, []httpTest{
			{name: "me", path: "/v1/users/me", token: app.token(t, ghost), wantCode: http.StatusUnauthorized, wantData: marshalObj(t, httpErr{Error: "user not authenticated"})},
		})
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)
	alice := testutil.CreateUser(t, app.store, "as1899", "alice@example.com", "password")

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", app.token(t, alice))
	app.do(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp echoapi.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, alice.ID, resp.User.ID)

	t.Run("expired refresh", func(t *testing.T) {
		claims := app.srv.NewClaims(alice)
		claims.OrigIssuedAt -= 24 * 60 * 60
		token, err := app.srv.GenerateToken(claims)
		assert.NoError(t, err)

		app.run(t, []httpTest{
			{
				name: "forbidden", method: http.MethodPost, path: "/v1/users/token-refresh", token: token,
				wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "refresh has expired"}),
			},
		})
	})
}
