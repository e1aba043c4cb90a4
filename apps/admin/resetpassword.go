package main

import (
	"github.com/trezcool/onestop/storage/seed"
)

func (cli *commandLine) resetPassword(seedFile, email, pwd string) error {
	f, err := seed.Load(seedFile)
	if err != nil {
		return err
	}
	if err := f.SetPassword(email, pwd); err != nil {
		return err
	}
	return f.Save(seedFile)
}
