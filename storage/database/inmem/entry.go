package inmemdb

import (
	"github.com/trezcool/onestop/core/calendar"
)

type entryRepository struct {
	db *entryTable
}

var _ calendar.Repository = (*entryRepository)(nil)

func NewEntryRepository(db *DB) calendar.Repository {
	return &entryRepository{db: db.entry}
}

func (repo *entryRepository) filter(match func(e calendar.Entry) bool) []calendar.Entry {
	entries := make([]calendar.Entry, 0)
	for _, e := range repo.db.rows {
		if match(e) {
			entries = append(entries, e)
		}
	}
	return entries
}

func (repo *entryRepository) AddEntry(e calendar.Entry) (calendar.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows = append(repo.db.rows, e)
	return e, nil
}

func (repo *entryRepository) QueryAllEntries() ([]calendar.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.filter(func(calendar.Entry) bool { return true }), nil
}

func (repo *entryRepository) FilterEntries(filter calendar.QueryFilter) ([]calendar.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.filter(filter.Match), nil
}

func (repo *entryRepository) GetEntryByID(id string) (calendar.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, e := range repo.db.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return calendar.Entry{}, calendar.ErrNotFound
}

func (repo *entryRepository) UpdateEntries(id string, fn func(e *calendar.Entry)) (calendar.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var (
		first calendar.Entry
		found bool
	)
	for i := range repo.db.rows {
		if repo.db.rows[i].ID != id {
			continue
		}
		fn(&repo.db.rows[i])
		if !found {
			first = repo.db.rows[i]
			found = true
		}
	}
	if !found {
		return calendar.Entry{}, calendar.ErrNotFound
	}
	return first, nil
}

func (repo *entryRepository) DeleteEntries(id string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	kept := make([]calendar.Entry, 0, len(repo.db.rows))
	for _, e := range repo.db.rows {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	deleted := len(repo.db.rows) - len(kept)
	repo.db.rows = kept
	return deleted, nil
}

func (repo *entryRepository) MarkNotified(userID string) ([]calendar.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	marked := make([]calendar.Entry, 0)
	for i := range repo.db.rows {
		e := &repo.db.rows[i]
		if e.UserID == userID && !e.PushNotified {
			e.PushNotified = true
			marked = append(marked, *e)
		}
	}
	return marked, nil
}
