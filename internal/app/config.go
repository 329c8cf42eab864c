package app

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/victorvcruz/clipboard-relay/internal/sync"
)

const (
	defaultHost       = "localhost"
	defaultPort       = 443
	defaultIntervalMs = uint32(sync.DefaultPollInterval / time.Millisecond)
)

var ErrTokenRequired = errors.New("token is required, use --help for usage information")

// Config is built once from the command line and never changes.
type Config struct {
	Host         string
	Port         uint16
	Token        string
	PollInterval time.Duration
	Debug        bool
	ShowVersion  bool
	ShowHelp     bool
}

type flagValues struct {
	intervalMs uint32
	quiet      bool
}

func newFlagSet(config *Config, values *flagValues) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("clipboard-relay", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.SortFlags = false

	flagSet.StringVarP(&config.Host, "host", "h", defaultHost, "Server hostname or IP")
	flagSet.Uint16VarP(&config.Port, "port", "p", defaultPort, "Server port (443 uses HTTPS, anything else plain HTTP)")
	flagSet.StringVarP(&config.Token, "token", "t", "", "Clipboard token (required)")
	flagSet.Uint32VarP(&values.intervalMs, "interval", "i", defaultIntervalMs, "Server polling interval in milliseconds")
	flagSet.BoolVarP(&values.quiet, "quiet", "q", false, "Disable debug output")
	flagSet.BoolVar(&config.ShowVersion, "version", false, "Show version information")
	flagSet.BoolVar(&config.ShowHelp, "help", false, "Show this help message")
	return flagSet
}

// ParseConfig parses command-line arguments, without the program name.
func ParseConfig(args []string) (*Config, error) {
	config := &Config{}
	values := &flagValues{}
	flagSet := newFlagSet(config, values)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			config.ShowHelp = true
			return config, nil
		}
		return nil, err
	}
	if config.ShowHelp || config.ShowVersion {
		return config, nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	config.PollInterval = time.Duration(values.intervalMs) * time.Millisecond
	config.Debug = !values.quiet

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Token == "" {
		return ErrTokenRequired
	}
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("polling interval must be greater than zero")
	}
	return nil
}

// PrintUsage writes the help text to w.
func PrintUsage(w io.Writer) {
	flagSet := newFlagSet(&Config{}, &flagValues{})
	fmt.Fprintf(w, `Usage: clipboard-relay [options]

Keeps the system clipboard in sync with a clipboard server. Local
changes are posted to /api/clipboard/<token>; the same endpoint is
polled for changes made elsewhere.

Options:
%s`, flagSet.FlagUsages())
}
