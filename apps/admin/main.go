package main

import (
	"log"
	"os"

	"github.com/trezcool/onestop/core"
	logsvc "github.com/trezcool/onestop/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// start CLI
	cli := commandLine{
		seedFile: conf.SeedFile,
		loc:      conf.Location,
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin: "+err.Error(), err)
		}
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}
