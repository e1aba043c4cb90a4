package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"time"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp   = errors.New("help provided")
	errNoSeed = errors.New("no seed file: use -seed or set seedFile")
)

type commandLine struct {
	seedFile string         // default seed file
	loc      *time.Location // export timezone; UTC if nil
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  adduser -email EMAIL [-id ID] [-name NAME] [-second-name NAME] [-phone PHONE] [-role ROLE] [-seed FILE] - add a user to the seed file")
	_, _ = fmt.Fprintln(cli.out, "  resetpassword -email EMAIL [-seed FILE] - reset a seeded user's password")
	_, _ = fmt.Fprintln(cli.out, "  agenda -user ID [-seed FILE] - print the agenda of a seeded user")
	_, _ = fmt.Fprintln(cli.out, "  export -user ID [-o FILE] [-seed FILE] - export the agenda of a seeded user as iCalendar")
}

func (cli *commandLine) newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	seedFile := fs.String("seed", cli.seedFile, "The seed file (YAML). Defaults to the configured seed file.")
	return fs, seedFile
}

// parse returns errHelp when the flags could not be parsed or a required flag is missing.
func parse(fs *flag.FlagSet, args []string, required ...*string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	for _, r := range required {
		if *r == "" {
			fs.Usage()
			return errHelp
		}
	}
	return nil
}

// promptPassword reads a password from the terminal without echoing it.
func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "adduser":
		fs, seedFile := cli.newFlagSet("adduser")
		email := fs.String("email", "", "The user's email. The password will be prompted next.")
		id := fs.String("id", "", "The user's ID. Defaults to the local part of the email.")
		name := fs.String("name", "", "The user's first name.")
		secondName := fs.String("second-name", "", "The user's second name.")
		phone := fs.String("phone", "", "The user's phone number.")
		role := fs.String("role", "", "One of STUDENT (default), FACULTY or COURSE_ASSISTANT.")
		if err := parse(fs, args[2:], email); err != nil {
			return err
		}
		if *seedFile == "" {
			return errNoSeed
		}
		pwd, err := cli.promptPassword(fs)
		if err != nil {
			return err
		}
		return cli.addUser(*seedFile, newUserArgs{
			id: *id, name: *name, secondName: *secondName, phone: *phone, email: *email, role: *role, pwd: pwd,
		})

	case "resetpassword":
		fs, seedFile := cli.newFlagSet("resetpassword")
		email := fs.String("email", "", "The user's email. The password will be prompted next.")
		if err := parse(fs, args[2:], email); err != nil {
			return err
		}
		if *seedFile == "" {
			return errNoSeed
		}
		pwd, err := cli.promptPassword(fs)
		if err != nil {
			return err
		}
		return cli.resetPassword(*seedFile, *email, pwd)

	case "agenda":
		fs, seedFile := cli.newFlagSet("agenda")
		userID := fs.String("user", "", "The user's ID.")
		if err := parse(fs, args[2:], userID); err != nil {
			return err
		}
		return cli.printAgenda(*seedFile, *userID)

	case "export":
		fs, seedFile := cli.newFlagSet("export")
		userID := fs.String("user", "", "The user's ID.")
		output := fs.String("o", "", "The output file. Defaults to stdout.")
		if err := parse(fs, args[2:], userID); err != nil {
			return err
		}
		return cli.export(*seedFile, *userID, *output)

	default:
		cli.printUsage()
		return errHelp
	}
}
