package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/onestop/core"
)

// Roles
const (
	RoleStudent         = "STUDENT"
	RoleFaculty         = "FACULTY"
	RoleCourseAssistant = "COURSE_ASSISTANT"
)

var (
	AllRoles = []string{RoleStudent, RoleFaculty, RoleCourseAssistant}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Faculty", Value: RoleFaculty},
		{Name: "Course Assistant", Value: RoleCourseAssistant},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"user_id" yaml:"user_id"`
	Name         string    `json:"name" yaml:"name"`
	SecondName   string    `json:"second_name" yaml:"second_name"`
	Phone        string    `json:"phone" yaml:"phone"`
	Email        string    `json:"email" yaml:"email"`
	Role         string    `json:"role" yaml:"role"`
	PasswordHash []byte    `json:"-" yaml:"-"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.SecondName)
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsFaculty() bool { return u.Role == RoleFaculty }

// NewUser contains information needed to register a new User.
type NewUser struct {
	ID         string `json:"user_id"`
	Name       string `json:"name"`
	SecondName string `json:"second_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"required,notblank"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"omitempty,role"`
}

// Clean normalizes the input and fills the defaults: the ID falls back to the local part of the email
// and the role to RoleStudent.
func (nu *NewUser) Clean() {
	nu.ID = core.CleanString(nu.ID)
	nu.Name = core.CleanString(nu.Name)
	nu.SecondName = core.CleanString(nu.SecondName)
	nu.Phone = core.CleanString(nu.Phone)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = strings.ToUpper(core.CleanString(nu.Role))

	if nu.ID == "" && nu.Email != "" {
		nu.ID = strings.SplitN(nu.Email, "@", 2)[0]
	}
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return validate.Struct(nu)
}

type LoginUser struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lu LoginUser) Validate(validate *validator.Validate) error { return validate.Struct(lu) }
