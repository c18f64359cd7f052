package action

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/keepassxc-tools/vault-keepassxc-client/config"
	"github.com/keepassxc-tools/vault-keepassxc-client/credentials"
	"github.com/keepassxc-tools/vault-keepassxc-client/secrets"
	"github.com/keepassxc-tools/vault-keepassxc-client/secrets/host"
)

// Set stores a new vault password.
type Set struct {
	Helper  Runner
	Config  config.Config
	Secrets secrets.Store
	// GenerateRandom stores a random password instead of prompting.
	GenerateRandom bool
	Logger         logrus.FieldLogger
}

// Run obtains a new password and hands it to the helper for identity. The
// helper creates the entry in the configured group when it is missing.
func (s *Set) Run(ctx context.Context, identity string) error {
	identity, err := resolveIdentity(s.Config, identity)
	if err != nil {
		return err
	}

	password, err := s.Secrets.Resolve(host.Source(s.GenerateRandom), host.DefaultPrompt)
	if err != nil {
		return errors.Wrap(err, "unable to obtain new password")
	}

	req := credentials.NewSetRequest(identity, s.Config.Group, password)
	logger(s.Logger).Debugf("Storing password for %q", req.URL())

	_, err = s.Helper.Run(ctx, req)
	return err
}
