package configuration

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const usageHeader = `Convert flac and mp3 files to aac (mp4 container).

Usage: f2aac [options] INPUT

INPUT is a flac/mp3 file or a directory which contains them.

Options:
`

// cliFlags holds the raw command line. Only flags the user actually passed
// override values loaded from the config file.
type cliFlags struct {
	input      string
	output     string
	format     string
	configPath string
	parallel   int64
	quiet      bool
	skipFresh  bool
	version    bool

	set map[string]bool
}

// parseFlags reports every command line error on output together with the
// usage text, the way the flag package does for unknown flags.
func parseFlags(args []string, output io.Writer) (*cliFlags, error) {
	flags := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("f2aac", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageHeader)
		fs.PrintDefaults()
	}

	fs.StringVar(&flags.output, "o", "", "output directory, created if absent")
	fs.StringVar(&flags.format, "f", "",
		"if the input is a directory, convert only this format (mp3, flac); both when omitted. ex: f2aac dir -f mp3")
	fs.BoolVar(&flags.quiet, "q", false, "don't print progress messages")
	fs.Int64Var(&flags.parallel, "j", 0, "number of files converted at the same time")
	fs.BoolVar(&flags.skipFresh, "skip-fresh", false, "skip files whose output is newer than the source")
	fs.StringVar(&flags.configPath, "config", "", "path to the YAML config file")
	fs.BoolVar(&flags.version, "version", false, "print the version and exit")

	// Flags may follow INPUT ("f2aac dir -f mp3"), so keep parsing after
	// every positional argument.
	var positional []string

	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}

			return nil, fmt.Errorf("%w: %w (%w)", ErrConfiguration, ErrCantParseFlags, err)
		}

		rest = fs.Args()
		if len(rest) == 0 {
			break
		}

		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	fs.Visit(func(f *flag.Flag) {
		flags.set[f.Name] = true
	})

	if flags.version {
		return flags, nil
	}

	switch len(positional) {
	case 0:
		return nil, usageError(fs, "missing INPUT argument")
	case 1:
		flags.input = positional[0]
	default:
		return nil, usageError(fs, "unexpected arguments: "+strings.Join(positional[1:], " "))
	}

	return flags, nil
}

func usageError(fs *flag.FlagSet, message string) error {
	fmt.Fprintln(fs.Output(), message)
	fs.Usage()

	return fmt.Errorf("%w: %w (%s)", ErrConfiguration, ErrCantParseFlags, message)
}

func (f *cliFlags) apply(config *Config) {
	config.Input = f.input
	config.Format = f.format

	if f.set["o"] {
		config.Paths.Output = f.output
	}

	if f.set["q"] {
		config.F2AAC.Quiet = f.quiet
	}

	if f.set["j"] {
		config.Transcoding.Parallel = f.parallel
	}

	if f.set["skip-fresh"] {
		config.Transcoding.SkipFresh = f.skipFresh
	}
}
