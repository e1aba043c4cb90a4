package main

import (
	"fmt"

	"github.com/trezcool/onestop/core/user"
	"github.com/trezcool/onestop/storage/seed"
)

type newUserArgs struct {
	id, name, secondName, phone, email, role, pwd string
}

// addUser appends a user with a hashed password to the seed file, creating it if needed.
func (cli *commandLine) addUser(seedFile string, args newUserArgs) error {
	f, err := seed.LoadOrEmpty(seedFile)
	if err != nil {
		return err
	}

	nu := user.NewUser{
		ID:         args.id,
		Name:       args.name,
		SecondName: args.secondName,
		Phone:      args.phone,
		Email:      args.email,
		Password:   args.pwd,
		Role:       args.role,
	}
	su, err := f.AddUser(nu)
	if err != nil {
		return err
	}
	if err := f.Save(seedFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "added user %s <%s>\n", su.ID, su.Email)
	return nil
}
