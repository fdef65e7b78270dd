package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"source.hodakov.me/hdkv/f2aac/internal/application"
	"source.hodakov.me/hdkv/f2aac/internal/configuration"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
	"source.hodakov.me/hdkv/f2aac/internal/domains/converter"
	"source.hodakov.me/hdkv/f2aac/internal/domains/lister"
	listerDTO "source.hodakov.me/hdkv/f2aac/internal/domains/lister/dto"
	"source.hodakov.me/hdkv/f2aac/internal/domains/reporter"
	"source.hodakov.me/hdkv/f2aac/internal/domains/tagger"
	"source.hodakov.me/hdkv/f2aac/internal/domains/transcoder"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK = iota
	exitFailure
	exitUsage
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := application.New(ctx, version)

	err := app.InitConfig(args)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, configuration.ErrVersionRequested):
		fmt.Fprintf(os.Stdout, "f2aac: %s\n", version)

		return exitOK
	case errors.Is(err, configuration.ErrCantParseFlags):
		// Already printed along with the usage text.
		return exitUsage
	case err != nil:
		app.Logger().Error(err)

		return exitUsage
	}

	app.InitLogger()

	app.RegisterDomain(domains.ListerName, lister.New(app))
	app.RegisterDomain(domains.TaggerName, tagger.New(app))
	app.RegisterDomain(domains.TranscoderName, transcoder.New(app))
	app.RegisterDomain(domains.ReporterName, reporter.New(app))
	app.RegisterDomain(domains.ConverterName, converter.New(app))

	err = app.ConnectDependencies()
	if err != nil {
		app.Logger().Error(err)

		return exitFailure
	}

	err = app.StartDomains()
	if err != nil {
		app.Logger().Error(err)

		return exitFailure
	}

	defer func() {
		if err := app.Shutdown(); err != nil {
			app.Logger().Error(err)
		}
	}()

	// CTRL+C handler.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	go func() {
		select {
		case signalThing := <-interrupt:
			app.Logger().WithField("signal", signalThing.String()).
				Warn("Got terminating signal, stopping conversions...")

			cancel()
		case <-ctx.Done():
		}
	}()

	return convert(ctx, app)
}

func convert(ctx context.Context, app *application.App) int {
	config := app.Config()

	conv, ok := app.RetrieveDomain(domains.ConverterName).(domains.Converter)
	if !ok {
		app.Logger().Error("converter domain is not registered")

		return exitFailure
	}

	info, err := os.Stat(config.Input)
	if err != nil {
		app.Logger().WithError(err).WithField("input", config.Input).Error("Can't read input")

		return exitFailure
	}

	if !info.IsDir() {
		result := conv.ConvertFile(ctx, listerDTO.NewJob(config.Input, config.Paths.Output))
		if !result.Success {
			return exitFailure
		}

		return exitOK
	}

	report, err := conv.ConvertDirectory(
		ctx, config.Input, config.Paths.Output, lister.Extensions(config.Format),
	)
	if err != nil {
		app.Logger().Error(err)

		return exitFailure
	}

	conv.LogSummary(report)

	if !report.Succeeded() {
		return exitFailure
	}

	return exitOK
}
