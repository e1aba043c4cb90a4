package inmemdb

import (
	"sync"

	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/user"
)

type (
	// tables keep rows in insertion order.
	userTable struct {
		mutex sync.RWMutex
		rows  []user.User
	}

	entryTable struct {
		mutex sync.RWMutex
		rows  []calendar.Entry
	}

	DB struct {
		user  *userTable
		entry *entryTable
	}
)

func Open() *DB {
	return &DB{
		user:  &userTable{rows: make([]user.User, 0)},
		entry: &entryTable{rows: make([]calendar.Entry, 0)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.rows = make([]user.User, 0)
	db.user.mutex.Unlock()

	db.entry.mutex.Lock()
	db.entry.rows = make([]calendar.Entry, 0)
	db.entry.mutex.Unlock()
}
