package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/guidebook/apps/di"
	"github.com/trezcool/guidebook/core"
	logsvc "github.com/trezcool/guidebook/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	c, err := di.New(context.Background(), conf, logger, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	cli := commandLine{
		conf:      conf,
		svc:       c.ChapterSvc,
		exportSvc: c.ExportSvc,
		validate:  c.Validate,
		out:       os.Stdout,
	}
	if c.DB != nil {
		cli.db = c.DB.DB
	}

	err = cli.run(os.Args)
	if cErr := c.Close(context.Background()); cErr != nil {
		logger.Error(fmt.Sprintf("closing: %v", cErr), cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
