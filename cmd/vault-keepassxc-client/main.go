// Command vault-keepassxc-client is an Ansible vault password client script
// that reads and stores vault passwords in a KeePassXC database through
// git-credential-keepassxc.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/keepassxc-tools/vault-keepassxc-client/action"
	"github.com/keepassxc-tools/vault-keepassxc-client/config"
	"github.com/keepassxc-tools/vault-keepassxc-client/credentials"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const description = "Get Ansible vault password from a KeePassXC database."

type options struct {
	verbose        bool
	vaultID        string
	generateRandom bool
	op             credentials.Operation
}

// parseArgs parses the command line. Requested help goes to stdout, usage
// after a mistake goes to stderr.
func parseArgs(name string, args []string, stdout, stderr io.Writer) (options, error) {
	opts := options{}
	var get, set bool

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SortFlags = false

	printUsage := func(w io.Writer) {
		fmt.Fprintf(w, "Usage: %s [--verbose] [--vault-id ID] [--generate-random] [--get | --set]\n\n%s\n\n", name, description)
		flags.SetOutput(w)
		flags.PrintDefaults()
	}
	flags.Usage = func() { printUsage(stdout) }

	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output.")
	flags.StringVar(&opts.vaultID, "vault-id", "", "Vault identity. The ID must be a valid URL hostname.")
	flags.BoolVar(&opts.generateRandom, "generate-random", false, "Set a randomly generated password.")
	flags.BoolVar(&get, "get", false, "Retrieve password from database (default).")
	flags.BoolVar(&set, "set", false, "Store password to database.")

	if err := flags.Parse(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			printUsage(stderr)
		}
		return opts, err
	}

	if flags.NArg() > 0 {
		printUsage(stderr)
		return opts, errors.Errorf("unexpected arguments: %q", flags.Args())
	}

	switch {
	case get && set:
		printUsage(stderr)
		return opts, errors.New("--get and --set are mutually exclusive")
	case set:
		opts.op = credentials.OperationSet
	default:
		opts.op = credentials.OperationGet
	}

	return opts, nil
}

func setupLogging(log *logrus.Logger, out io.Writer, verbose bool) {
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

type environment struct {
	stdout io.Writer
	stderr io.Writer
	config config.Options
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, env environment) int {
	opts, err := parseArgs(args[0], args[1:], env.stdout, env.stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(env.stderr, "Error: %v\n", err)
		return exitUsage
	}

	log := logrus.New()
	setupLogging(log, env.stderr, opts.verbose)

	if err := runOperation(ctx, log, opts, env); err != nil {
		if opts.verbose {
			log.Debugf("Caught an error: %+v", err)
		}
		fmt.Fprintf(env.stderr, "Error: %v\n", err)
		return exitError
	}

	return exitOK
}

func runOperation(ctx context.Context, log *logrus.Logger, opts options, env environment) error {
	log.Debugf("Arguments: %+v", opts)

	cfgOpts := env.config
	cfgOpts.Logger = log

	cfg, err := config.Load(cfgOpts)
	if err != nil {
		return err
	}
	log.Debugf("Configuration: %+v", cfg)

	a, err := action.New(opts.op, action.Options{
		Config:         cfg,
		Verbose:        opts.verbose,
		GenerateRandom: opts.generateRandom,
		Out:            env.stdout,
		Err:            env.stderr,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	return a.Run(ctx, opts.vaultID)
}

func main() {
	if err := disableCoreDumps(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	os.Exit(run(context.Background(), os.Args, environment{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}))
}
