// Package seed reads and writes the YAML file holding the initial users & calendar entries of the store.
package seed

import (
	_ "embed"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/store"
	"github.com/trezcool/onestop/core/user"
)

//go:embed default.yaml
var defaultSeed []byte

type (
	// User is a seeded user. The password is hashed at load time unless PasswordHash is set.
	User struct {
		user.User    `yaml:",inline"`
		Password     string `yaml:"password,omitempty"`
		PasswordHash string `yaml:"password_hash,omitempty"`
	}

	File struct {
		Users   []User           `yaml:"users"`
		Entries []calendar.Entry `yaml:"entries"`
	}
)

// Default returns the embedded seed.
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// Load reads the seed file at path, or the embedded seed if path is empty.
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading seed file")
	}
	return Parse(data)
}

// LoadOrEmpty reads the seed file at path, returning an empty seed if it does not exist yet.
func LoadOrEmpty(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &File{}, nil
	}
	return Load(path)
}

func Parse(data []byte) (*File, error) {
	f := new(File)
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrap(err, "parsing seed")
	}
	return f, nil
}

// Save writes the seed to path.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "encoding seed")
	}
	return ioutil.WriteFile(path, data, 0o644)
}

// AddUser appends a user with a hashed password.
// It fails with user.ErrEmailExists if the email is taken, user.ErrIDExists if the ID is.
func (f *File) AddUser(nu user.NewUser) (User, error) {
	nu.Clean()
	for _, su := range f.Users {
		if core.CleanString(su.Email, true /* lower */) == nu.Email {
			return User{}, user.ErrEmailExists
		}
	}
	if _, err := f.UserByID(nu.ID); err == nil {
		return User{}, user.ErrIDExists
	}

	usr := user.User{
		ID:         nu.ID,
		Name:       nu.Name,
		SecondName: nu.SecondName,
		Phone:      nu.Phone,
		Email:      nu.Email,
		Role:       nu.Role,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	su := User{User: usr, PasswordHash: string(usr.PasswordHash)}
	f.Users = append(f.Users, su)
	return su, nil
}

// SetPassword replaces the password of the user owning email with a hashed pwd.
func (f *File) SetPassword(email, pwd string) error {
	email = core.CleanString(email, true /* lower */)
	for i := range f.Users {
		su := &f.Users[i]
		if core.CleanString(su.Email, true /* lower */) != email {
			continue
		}
		if err := su.User.SetPassword(pwd); err != nil {
			return err
		}
		su.PasswordHash = string(su.User.PasswordHash)
		su.Password = ""
		return nil
	}
	return user.ErrNotFound
}

// UserByID returns the seeded user with that ID.
func (f *File) UserByID(id string) (User, error) {
	for _, su := range f.Users {
		if su.ID == id {
			return su, nil
		}
	}
	return User{}, user.ErrNotFound
}

// EntriesByUserID returns the seeded entries of the user, in file order.
func (f *File) EntriesByUserID(userID string) []calendar.Entry {
	entries := make([]calendar.Entry, 0)
	for _, e := range f.Entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	return entries
}

// Apply imports the seeded users & entries into st. Users whose email is already taken are skipped.
func Apply(st *store.Store, f *File) error {
	for _, su := range f.Users {
		usr := su.User
		switch {
		case su.PasswordHash != "":
			usr.PasswordHash = []byte(su.PasswordHash)
		case su.Password != "":
			if err := usr.SetPassword(su.Password); err != nil {
				return errors.Wrapf(err, "hashing password of %s", usr.Email)
			}
		}
		if usr.Role == "" {
			usr.Role = user.RoleStudent
		}
		if _, err := st.ImportUser(usr); err != nil {
			return err
		}
	}
	for _, e := range f.Entries {
		if _, err := st.ImportCalendarEntry(e); err != nil {
			return err
		}
	}
	return nil
}
