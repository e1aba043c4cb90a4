package inmemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/user"
)

func TestUserRepository(t *testing.T) {
	db := Open()
	repo := NewUserRepository(db)

	alice := user.User{ID: "as1899", Email: "alice@example.com"}
	bob := user.User{ID: "bj1234", Email: "bobjohnson@example.com"}

	_, err := repo.CreateUser(alice)
	assert.NoError(t, err)
	_, err = repo.CreateUser(bob)
	assert.NoError(t, err)
	_, err = repo.CreateUser(user.User{ID: "other", Email: "alice@example.com"})
	assert.Equal(t, user.ErrEmailExists, err)
	_, err = repo.CreateUser(user.User{ID: "as1899", Email: "carol@example.com"})
	assert.Equal(t, user.ErrIDExists, err)
	_, err = repo.CreateUser(user.User{ID: "as1899", Email: "bobjohnson@example.com"})
	assert.Equal(t, user.ErrEmailExists, err)

	users, err := repo.QueryAllUsers()
	assert.NoError(t, err)
	assert.Equal(t, []user.User{alice, bob}, users)

	// returned slices are copies
	users[0].Name = "lol"
	got, err := repo.GetUserByID("as1899")
	assert.NoError(t, err)
	assert.Equal(t, alice, got)

	got, err = repo.GetUserByEmail("bobjohnson@example.com")
	assert.NoError(t, err)
	assert.Equal(t, bob, got)

	_, err = repo.GetUserByID("lol")
	assert.Equal(t, user.ErrNotFound, err)
	_, err = repo.GetUserByEmail("lol@example.com")
	assert.Equal(t, user.ErrNotFound, err)

	count, err := repo.CountUsers()
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	db.Reset()
	count, _ = repo.CountUsers()
	assert.Zero(t, count)
}

func TestEntryRepository(t *testing.T) {
	db := Open()
	repo := NewEntryRepository(db)

	e1 := calendar.Entry{ID: "1", UserID: "as1899", Day: "2024-10-29", Description: "first"}
	e2 := calendar.Entry{ID: "2", UserID: "bj1234", Day: "2024-10-29"}
	e3 := calendar.Entry{ID: "1", UserID: "as1899", Day: "2024-10-30", Description: "same id"}
	for _, e := range []calendar.Entry{e1, e2, e3} {
		_, err := repo.AddEntry(e)
		assert.NoError(t, err)
	}

	t.Run("query", func(t *testing.T) {
		all, err := repo.QueryAllEntries()
		assert.NoError(t, err)
		assert.Equal(t, []calendar.Entry{e1, e2, e3}, all)

		got, err := repo.FilterEntries(calendar.QueryFilter{UserID: "as1899"})
		assert.NoError(t, err)
		assert.Equal(t, []calendar.Entry{e1, e3}, got)

		got, err = repo.FilterEntries(calendar.QueryFilter{UserID: "lol"})
		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		first, err := repo.GetEntryByID("1")
		assert.NoError(t, err)
		assert.Equal(t, e1, first)

		_, err = repo.GetEntryByID("lol")
		assert.Equal(t, calendar.ErrNotFound, err)
	})

	t.Run("update every match", func(t *testing.T) {
		got, err := repo.UpdateEntries("1", func(e *calendar.Entry) { e.Title = "updated" })
		assert.NoError(t, err)
		assert.Equal(t, "updated", got.Title)
		assert.Equal(t, "first", got.Description)

		entries, _ := repo.FilterEntries(calendar.QueryFilter{UserID: "as1899"})
		for _, e := range entries {
			assert.Equal(t, "updated", e.Title)
		}

		_, err = repo.UpdateEntries("lol", func(e *calendar.Entry) {})
		assert.Equal(t, calendar.ErrNotFound, err)
	})

	t.Run("mark notified", func(t *testing.T) {
		marked, err := repo.MarkNotified("as1899")
		assert.NoError(t, err)
		assert.Len(t, marked, 2)
		for _, e := range marked {
			assert.True(t, e.PushNotified)
		}

		marked, err = repo.MarkNotified("as1899")
		assert.NoError(t, err)
		assert.Empty(t, marked)

		other, _ := repo.FilterEntries(calendar.QueryFilter{UserID: "bj1234"})
		assert.False(t, other[0].PushNotified)
	})

	t.Run("delete every match", func(t *testing.T) {
		n, err := repo.DeleteEntries("1")
		assert.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.DeleteEntries("1")
		assert.NoError(t, err)
		assert.Zero(t, n)

		all, _ := repo.QueryAllEntries()
		assert.Equal(t, []calendar.Entry{e2}, all)
	})
}
