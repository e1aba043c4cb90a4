// Package testutil holds fixtures shared by the tests.
package testutil

import (
	"io/ioutil"
	"log"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/store"
	"github.com/trezcool/onestop/core/user"
	logsvc "github.com/trezcool/onestop/services/logger"
	inmemdb "github.com/trezcool/onestop/storage/database/inmem"
)

// NewConfig returns the configuration used by tests: no delay, no sweep, no request logs.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = false
	conf.Server.DisableRequestsLogging = true
	conf.Notification.Delay = 0
	conf.Notification.Sweep = ""
	conf.Notification.Platform = core.PlatformAndroid
	return conf
}

// NewLogger returns a silent logger.
func NewLogger(conf *core.Config) *logsvc.RollbarLogger {
	l := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	l.Enable(false)
	return l
}

// NewValidator returns a validator with every validation tag registered, along with its translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	translator := core.NewTranslator()
	return store.NewValidator(translator), translator
}

// NewStore returns an empty store backed by the in-memory database.
// Pass validate to share it with another component (e.g. the API server).
func NewStore(t *testing.T, gw core.NotificationGateway, validate ...*validator.Validate) *store.Store {
	t.Helper()
	var v *validator.Validate
	if len(validate) > 0 {
		v = validate[0]
	} else {
		v, _ = NewValidator()
	}
	conf := NewConfig()
	db := inmemdb.Open()
	return store.New(store.Deps{
		Users:    inmemdb.NewUserRepository(db),
		Entries:  inmemdb.NewEntryRepository(db),
		Validate: v,
		Logger:   NewLogger(conf),
		Gateway:  gw,
		Location: conf.Location,
	})
}

func CreateUser(t *testing.T, st *store.Store, id, email, pwd string, role ...string) user.User {
	t.Helper()
	nu := user.NewUser{ID: id, Name: id, Email: email, Password: pwd}
	if len(role) > 0 {
		nu.Role = role[0]
	}
	added, err := st.AddUser(nu)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if !added {
		t.Fatalf("CreateUser() failed: %s already exists", email)
	}
	usr, err := st.UserByEmail(email)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateEntry(t *testing.T, st *store.Store, id, userID, day, clock, description, category string) calendar.Entry {
	t.Helper()
	e, err := st.AddCalendarEntry(calendar.NewEntry{
		ID:          id,
		UserID:      userID,
		Day:         day,
		Time:        clock,
		Title:       description,
		Description: description,
		Category:    category,
	})
	if err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}
	return e
}
