package main

import (
	"fmt"
	"io/ioutil"

	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/storage/seed"
)

func (cli *commandLine) printAgenda(seedFile, userID string) error {
	f, err := seed.Load(seedFile)
	if err != nil {
		return err
	}
	if _, err := f.UserByID(userID); err != nil {
		return err
	}

	for _, day := range calendar.GroupByDay(f.EntriesByUserID(userID)) {
		_, _ = fmt.Fprintln(cli.out, day.Day)
		for _, e := range day.Entries {
			status := " "
			if e.Completed {
				status = "x"
			}
			_, _ = fmt.Fprintf(cli.out, "  [%s] %-8s %-12s %s\n", status, e.Time, e.Category, e.Description)
		}
	}
	return nil
}

func (cli *commandLine) export(seedFile, userID, output string) error {
	f, err := seed.Load(seedFile)
	if err != nil {
		return err
	}
	su, err := f.UserByID(userID)
	if err != nil {
		return err
	}

	name := su.FullName()
	if name == "" {
		name = su.ID
	}
	feed := calendar.ExportICS(name, f.EntriesByUserID(userID), cli.loc)
	if output == "" {
		_, err = fmt.Fprint(cli.out, feed)
		return err
	}
	return ioutil.WriteFile(output, []byte(feed), 0o644)
}
