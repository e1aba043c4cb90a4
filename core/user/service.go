package user

import (
	"errors"
	"time"

	"github.com/trezcool/onestop/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
	ErrIDExists    = errors.New("a user with this id already exists")
	ErrBadPassword = errors.New("password does not match")
)

type (
	Repository interface {
		// CreateUser appends the user; fails with ErrEmailExists if the email is taken,
		// ErrIDExists if the ID is.
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		CountUsers() (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create hashes the password of a cleaned NewUser and stores the User.
func (svc *Service) Create(nu NewUser) (User, error) {
	usr := User{
		ID:         nu.ID,
		Name:       nu.Name,
		SecondName: nu.SecondName,
		Phone:      nu.Phone,
		Email:      nu.Email,
		Role:       nu.Role,
		CreatedAt:  time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

// Insert stores an already hashed User as is.
func (svc *Service) Insert(usr User) (User, error) {
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	usr.Email = core.CleanString(usr.Email, true /* lower */)
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) Count() (int, error) {
	return svc.repo.CountUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(core.CleanString(id))
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

// Authenticate returns the User owning exactly that email & password pair.
// Any password check failure, including a missing or malformed hash, is ErrBadPassword.
func (svc *Service) Authenticate(email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return User{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrBadPassword
	}
	return usr, nil
}
