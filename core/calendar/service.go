package calendar

import (
	"errors"
)

var (
	// errors
	ErrNotFound = errors.New("calendar entry not found")
)

type (
	// Repository stores entries in insertion order. Entry IDs are not deduplicated:
	// operations by ID act on every matching entry.
	Repository interface {
		AddEntry(e Entry) (Entry, error)
		QueryAllEntries() ([]Entry, error)
		// FilterEntries applies AND operation on available QueryFilter fields.
		FilterEntries(filter QueryFilter) ([]Entry, error)
		GetEntryByID(id string) (Entry, error)
		// UpdateEntries applies fn to every entry matching id and returns the first updated one.
		UpdateEntries(id string, fn func(e *Entry)) (Entry, error)
		DeleteEntries(id string) (int, error)
		// MarkNotified flips PushNotified on every un-notified entry of the user and returns those entries.
		MarkNotified(userID string) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Add(ne NewEntry) (Entry, error) {
	return svc.repo.AddEntry(ne.Entry())
}

// Insert stores e as is, keeping its notification & completion state.
func (svc *Service) Insert(e Entry) (Entry, error) {
	if !e.Completed {
		e.CompletedTime = ""
	}
	return svc.repo.AddEntry(e)
}

func (svc *Service) QueryAll() ([]Entry, error) {
	return svc.repo.QueryAllEntries()
}

func (svc *Service) Filter(filter QueryFilter) ([]Entry, error) {
	filter.Clean()
	return svc.repo.FilterEntries(filter)
}

func (svc *Service) ByUserID(userID string) ([]Entry, error) {
	return svc.Filter(QueryFilter{UserID: userID})
}

// Pending returns the entries of the user that were never notified.
func (svc *Service) Pending(userID string) ([]Entry, error) {
	notified := false
	return svc.Filter(QueryFilter{UserID: userID, PushNotified: &notified})
}

func (svc *Service) GetByID(id string) (Entry, error) {
	return svc.repo.GetEntryByID(id)
}

func (svc *Service) Update(id string, ue UpdateEntry) (Entry, error) {
	return svc.repo.UpdateEntries(id, ue.Apply)
}

func (svc *Service) Complete(id, completedTime string) (Entry, error) {
	return svc.repo.UpdateEntries(id, func(e *Entry) { e.Complete(completedTime) })
}

func (svc *Service) Uncomplete(id string) (Entry, error) {
	return svc.repo.UpdateEntries(id, func(e *Entry) { e.Uncomplete() })
}

func (svc *Service) Delete(id string) error {
	n, err := svc.repo.DeleteEntries(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (svc *Service) MarkNotified(userID string) ([]Entry, error) {
	return svc.repo.MarkNotified(userID)
}
