// Package store implements the agenda data store: the single owner of users, calendar entries
// and the session user. Every mutation is published to subscribed listeners.
package store

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/user"
)

type (
	Deps struct {
		Users    user.Repository
		Entries  calendar.Repository
		Validate *validator.Validate
		Logger   core.Logger
		Gateway  core.NotificationGateway
		Location *time.Location // iCalendar export and default completion time; UTC by default
	}

	Store struct {
		usrSvc   *user.Service
		entrySvc *calendar.Service
		validate *validator.Validate
		logger   core.Logger
		gateway  core.NotificationGateway
		loc      *time.Location
		events   *broker

		sessionMu sync.RWMutex
		session   *user.User
	}
)

// New builds a Store. It panics if a dependency is missing.
func New(deps Deps) *Store {
	if deps.Users == nil || deps.Entries == nil || deps.Validate == nil || deps.Logger == nil || deps.Gateway == nil {
		panic("store.New: missing dependency")
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		usrSvc:   user.NewService(deps.Users),
		entrySvc: calendar.NewService(deps.Entries),
		validate: deps.Validate,
		logger:   deps.Logger,
		gateway:  deps.Gateway,
		loc:      loc,
		events:   newBroker(),
	}
}

// Subscribe registers l for every change event. The returned func cancels the subscription.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	return s.events.subscribe(l)
}

// Users

// AddUser registers a new user. It returns false if the email or the user ID is already taken.
func (s *Store) AddUser(nu user.NewUser) (bool, error) {
	if err := nu.Validate(s.validate); err != nil {
		return false, err
	}
	usr, err := s.usrSvc.Create(nu)
	if err != nil {
		if isTaken(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "creating user")
	}
	s.events.publish(Event{Kind: UserAdded, UserID: usr.ID, Count: 1})
	return true, nil
}

// ImportUser stores an already hashed user. It returns false if the email or the user ID is already taken.
func (s *Store) ImportUser(usr user.User) (bool, error) {
	usr, err := s.usrSvc.Insert(usr)
	if err != nil {
		if isTaken(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "importing user")
	}
	s.events.publish(Event{Kind: UserAdded, UserID: usr.ID, Count: 1})
	return true, nil
}

// AuthenticateUser sets the session user iff a user owns exactly that email & password.
// The session is left unchanged otherwise.
func (s *Store) AuthenticateUser(email, password string) (bool, error) {
	usr, err := s.usrSvc.Authenticate(email, password)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrBadPassword) {
			s.logger.Debug("authentication failed", map[string]interface{}{"email": email, "reason": err.Error()})
			return false, nil
		}
		return false, errors.Wrap(err, "authenticating user")
	}
	s.setSession(&usr)
	return true, nil
}

func isTaken(err error) bool {
	return errors.Is(err, user.ErrEmailExists) || errors.Is(err, user.ErrIDExists)
}

func (s *Store) UserExists(email string) (bool, error) {
	if _, err := s.usrSvc.GetByEmail(email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Users returns every user in insertion order.
func (s *Store) Users() ([]user.User, error) {
	return s.usrSvc.QueryAll()
}

func (s *Store) UserByID(id string) (user.User, error) {
	return s.usrSvc.GetByID(id)
}

func (s *Store) UserByEmail(email string) (user.User, error) {
	return s.usrSvc.GetByEmail(email)
}

// Session

func (s *Store) SetCurrentUser(id string) error {
	usr, err := s.usrSvc.GetByID(id)
	if err != nil {
		return err
	}
	s.setSession(&usr)
	return nil
}

// CurrentUser returns the session user. ok is false when nobody is logged in.
func (s *Store) CurrentUser() (usr user.User, ok bool) {
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	if s.session == nil {
		return user.User{}, false
	}
	return *s.session, true
}

func (s *Store) Logout() {
	s.setSession(nil)
}

func (s *Store) setSession(usr *user.User) {
	s.sessionMu.Lock()
	s.session = usr
	s.sessionMu.Unlock()

	evt := Event{Kind: SessionChanged}
	if usr != nil {
		evt.UserID = usr.ID
	}
	s.events.publish(evt)
}

// Calendar entries

// AddCalendarEntry appends the entry. IDs are not deduplicated.
func (s *Store) AddCalendarEntry(ne calendar.NewEntry) (calendar.Entry, error) {
	if err := ne.Validate(s.validate); err != nil {
		return calendar.Entry{}, err
	}
	e, err := s.entrySvc.Add(ne)
	if err != nil {
		return calendar.Entry{}, errors.Wrap(err, "adding calendar entry")
	}
	s.events.publish(Event{Kind: EntryAdded, UserID: e.UserID, EntryID: e.ID, Count: 1})
	return e, nil
}

// ImportCalendarEntry appends the entry keeping its notification & completion state.
func (s *Store) ImportCalendarEntry(e calendar.Entry) (calendar.Entry, error) {
	e, err := s.entrySvc.Insert(e)
	if err != nil {
		return calendar.Entry{}, errors.Wrap(err, "importing calendar entry")
	}
	s.events.publish(Event{Kind: EntryAdded, UserID: e.UserID, EntryID: e.ID, Count: 1})
	return e, nil
}

// EntriesByUserID returns the entries of the user in store order.
func (s *Store) EntriesByUserID(userID string) ([]calendar.Entry, error) {
	return s.entrySvc.ByUserID(userID)
}

func (s *Store) Entries(filter calendar.QueryFilter) ([]calendar.Entry, error) {
	return s.entrySvc.Filter(filter)
}

func (s *Store) EntryByID(id string) (calendar.Entry, error) {
	return s.entrySvc.GetByID(id)
}

// UpdateCalendarEntry merges the provided fields into every entry with that id.
func (s *Store) UpdateCalendarEntry(id string, ue calendar.UpdateEntry) (calendar.Entry, error) {
	if err := ue.Validate(s.validate); err != nil {
		return calendar.Entry{}, err
	}
	e, err := s.entrySvc.Update(id, ue)
	if err != nil {
		return calendar.Entry{}, err
	}
	s.events.publish(Event{Kind: EntryUpdated, UserID: e.UserID, EntryID: id, Count: 1})
	return e, nil
}

// RemoveCalendarEntry removes every entry with that id.
func (s *Store) RemoveCalendarEntry(id string) error {
	e, err := s.entrySvc.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.entrySvc.Delete(id); err != nil {
		return err
	}
	s.events.publish(Event{Kind: EntryRemoved, UserID: e.UserID, EntryID: id, Count: 1})
	return nil
}

// CompleteCalendarEntry marks the entry completed at completedTime (now, if empty).
func (s *Store) CompleteCalendarEntry(id, completedTime string) (calendar.Entry, error) {
	completedTime = core.CleanString(completedTime)
	if completedTime == "" {
		completedTime = time.Now().In(s.loc).Format(time.RFC3339)
	}
	e, err := s.entrySvc.Complete(id, completedTime)
	if err != nil {
		return calendar.Entry{}, err
	}
	s.events.publish(Event{Kind: EntryCompleted, UserID: e.UserID, EntryID: id, Count: 1})
	return e, nil
}

// UncompleteCalendarEntry moves the entry back to the active state; its notification flag is kept.
func (s *Store) UncompleteCalendarEntry(id string) (calendar.Entry, error) {
	e, err := s.entrySvc.Uncomplete(id)
	if err != nil {
		return calendar.Entry{}, err
	}
	s.events.publish(Event{Kind: EntryUncompleted, UserID: e.UserID, EntryID: id, Count: 1})
	return e, nil
}

// Derived views

// Agenda returns the entries of the user grouped by day.
func (s *Store) Agenda(userID string) ([]calendar.AgendaDay, error) {
	entries, err := s.EntriesByUserID(userID)
	if err != nil {
		return nil, err
	}
	return calendar.GroupByDay(entries), nil
}

func (s *Store) MarkedDates(userID string) (map[string]calendar.DayMarks, error) {
	entries, err := s.EntriesByUserID(userID)
	if err != nil {
		return nil, err
	}
	return calendar.MarkDates(entries), nil
}

// ExportICS renders the entries of the user as an iCalendar feed.
func (s *Store) ExportICS(userID string) (string, error) {
	usr, err := s.usrSvc.GetByID(userID)
	if err != nil {
		return "", err
	}
	entries, err := s.EntriesByUserID(userID)
	if err != nil {
		return "", err
	}
	name := usr.FullName()
	if name == "" {
		name = usr.ID
	}
	return calendar.ExportICS(name, entries, s.loc), nil
}
