package action

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/keepassxc-tools/vault-keepassxc-client/config"
	"github.com/keepassxc-tools/vault-keepassxc-client/credentials"
)

// Get retrieves a vault password and prints it.
type Get struct {
	Helper Runner
	Config config.Config
	Out    io.Writer
	Logger logrus.FieldLogger
}

// Run looks up the password for identity and writes it to Out followed by
// a newline.
func (g *Get) Run(ctx context.Context, identity string) error {
	identity, err := resolveIdentity(g.Config, identity)
	if err != nil {
		return err
	}

	req := credentials.NewGetRequest(identity, g.Config.Group)
	log := logger(g.Logger)
	log.Debugf("Reading password for %q", req.URL())

	out, err := g.Helper.Run(ctx, req)
	if err != nil {
		return err
	}

	resp, err := credentials.DecodeResponse(out)
	if err != nil {
		return err
	}
	log.Debug("Received password from helper")

	_, err = fmt.Fprintln(g.Out, resp.Password)
	return errors.Wrap(err, "unable to write password")
}
