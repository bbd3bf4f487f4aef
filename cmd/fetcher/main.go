package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/cryogrid-fetcher/internal/application"
	"github.com/eugenenazirov/cryogrid-fetcher/internal/logging"
)

var newLogger = logging.New

func main() {
	kingpin.FatalIfError(run(os.Args[1:], os.Stdout), "")
}

func run(args []string, stdout io.Writer) error {
	kingpinApp := kingpin.New("cryogrid-fetcher", "CryoGrid data fetcher - validates data requests and writes request templates")
	verbose := kingpinApp.Flag("verbose", "Log request details and individual checks").Short('v').Bool()

	checkCmd := kingpinApp.Command("check", "Validate a request file and print the normalized request")
	checkFile := checkCmd.Arg("request", "Path to the request YAML file").Required().String()
	allowedBuckets := checkCmd.Flag("allowed-bucket", "Restrict S3 paths to this bucket (repeatable)").Strings()
	dotenvDir := checkCmd.Flag("dotenv-dir", "Directory the upward .env search starts from").String()

	templateCmd := kingpinApp.Command("template", "Write a blank request template")
	templateFile := templateCmd.Arg("output", "Path of the template to write").Required().String()
	force := templateCmd.Flag("force", "Overwrite an existing file").Bool()

	command, err := kingpinApp.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(application.Options{
		AllowedBuckets:  *allowedBuckets,
		DotenvSearchDir: *dotenvDir,
	}, logger)
	if err != nil {
		return err
	}

	switch command {
	case checkCmd.FullCommand():
		_, err = app.Check(context.Background(), *checkFile, stdout)
	case templateCmd.FullCommand():
		err = app.WriteTemplate(*templateFile, *force)
	}
	return err
}
