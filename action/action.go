package action

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/keepassxc-tools/vault-keepassxc-client/config"
	"github.com/keepassxc-tools/vault-keepassxc-client/credentials"
	"github.com/keepassxc-tools/vault-keepassxc-client/helper"
	"github.com/keepassxc-tools/vault-keepassxc-client/secrets"
	"github.com/keepassxc-tools/vault-keepassxc-client/secrets/host"
)

// Action is one of the operations the client performs against the
// password database:
// - get
// - set
type Action interface {
	// Run the action for a vault identity. An empty identity selects the
	// configured default.
	Run(ctx context.Context, identity string) error
}

// Runner invokes the credential helper once per request.
type Runner interface {
	Run(ctx context.Context, req credentials.Request) ([]byte, error)
}

var _ Runner = &helper.Helper{}

// Options configures an action created with New.
type Options struct {
	Config  config.Config
	Verbose bool
	// GenerateRandom stores a random password instead of prompting.
	GenerateRandom bool
	// Out receives the retrieved password and the helper's output.
	Out io.Writer
	// Err receives the helper's diagnostics.
	Err     io.Writer
	Secrets secrets.Store
	Logger  logrus.FieldLogger
}

// New returns the action for op, wired to the configured helper.
func New(op credentials.Operation, opts Options) (Action, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	h := helper.New(opts.Config, opts.Verbose)
	h.Err = opts.Err
	h.Logger = opts.Logger

	switch op {
	case credentials.OperationGet:
		return &Get{
			Helper: h,
			Config: opts.Config,
			Out:    opts.Out,
			Logger: opts.Logger,
		}, nil
	case credentials.OperationSet:
		h.Out = opts.Out
		store := opts.Secrets
		if store == nil {
			store = &host.SecretStore{}
		}
		return &Set{
			Helper:         h,
			Config:         opts.Config,
			Secrets:        store,
			GenerateRandom: opts.GenerateRandom,
			Logger:         opts.Logger,
		}, nil
	default:
		return nil, errors.Errorf("unknown operation %q", op)
	}
}

// resolveIdentity applies the configured default and checks that the
// identity fits into a vault URL.
func resolveIdentity(cfg config.Config, identity string) (string, error) {
	if identity == "" {
		identity = cfg.DefaultIdentity
	}
	if err := credentials.ValidateIdentity(identity); err != nil {
		return "", err
	}
	return identity, nil
}

func logger(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	return logrus.StandardLogger()
}
