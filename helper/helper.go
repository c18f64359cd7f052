package helper

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/keepassxc-tools/vault-keepassxc-client/config"
	"github.com/keepassxc-tools/vault-keepassxc-client/credentials"
)

// VerboseFlag is passed to the helper in verbose mode.
const VerboseFlag = "-vvv"

// Helper runs a git-credential-keepassxc compatible credential helper. The
// helper is the only component that reads or writes the password database.
type Helper struct {
	// Path is the name or path of the helper executable.
	Path string
	// Verbose makes the helper log verbosely.
	Verbose bool
	// Out receives the helper's standard output when it is not captured.
	Out io.Writer
	// Err receives the helper's standard error.
	Err io.Writer
	// Logger receives debug messages.
	Logger logrus.FieldLogger
}

// New returns a Helper for the configured helper program.
func New(cfg config.Config, verbose bool) *Helper {
	return &Helper{
		Path:    cfg.Helper,
		Verbose: verbose,
	}
}

// Invocation fully describes one run of the helper.
type Invocation struct {
	Executable string
	Args       []string
	Stdin      []byte
	// CaptureOutput is set when the helper's standard output holds the
	// response.
	CaptureOutput bool
}

// Argv returns the executable followed by its arguments.
func (i Invocation) Argv() []string {
	return append([]string{i.Executable}, i.Args...)
}

func (i Invocation) subcommand() string {
	for _, arg := range i.Args {
		if arg != VerboseFlag {
			return arg
		}
	}
	return ""
}

// Invocation derives the helper invocation for req.
func (h *Helper) Invocation(req credentials.Request) (Invocation, error) {
	args := []string{}
	if h.Verbose {
		args = append(args, VerboseFlag)
	}

	inv := Invocation{Executable: h.Path}

	switch r := req.(type) {
	case credentials.GetRequest:
		args = append(args, "get", "--json", "--no-filter", "--group", r.Group())
		inv.CaptureOutput = true
	case credentials.SetRequest:
		args = append(args, "store", "--no-filter", "--create-in", r.Group(), "--group", r.Group())
	default:
		return Invocation{}, errors.Errorf("unsupported request type %T", req)
	}

	stdin, err := credentials.EncodePayload(req.Fields())
	if err != nil {
		return Invocation{}, errors.Wrap(err, "unable to encode request")
	}

	inv.Args = args
	inv.Stdin = stdin

	return inv, nil
}

// Run invokes the helper once for req. For a GetRequest the helper's
// standard output is returned; otherwise it is copied to Out and the
// returned slice is nil. A failed invocation is never retried.
func (h *Helper) Run(ctx context.Context, req credentials.Request) ([]byte, error) {
	inv, err := h.Invocation(req)
	if err != nil {
		return nil, err
	}

	return h.run(ctx, inv, credentials.RedactedPayload(req.Fields()))
}

func (h *Helper) run(ctx context.Context, inv Invocation, logPayload string) ([]byte, error) {
	log := h.logger()

	log.Debugf("Running helper: %q", inv.Argv())
	if len(inv.Stdin) > 0 {
		log.Debugf("Standard input: %q", logPayload)
	}

	path, err := exec.LookPath(inv.Executable)
	if err != nil {
		return nil, &InvocationError{
			Helper:     inv.Executable,
			Subcommand: inv.subcommand(),
			Reason:     ReasonNotFound,
			Err:        err,
		}
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Args[0] = inv.Executable
	cmd.Stdin = bytes.NewReader(inv.Stdin)
	cmd.Stderr = h.errOut()

	var stdout bytes.Buffer
	if inv.CaptureOutput {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = h.out()
	}

	if err := cmd.Start(); err != nil {
		reason := ReasonStartFailed
		if os.IsNotExist(err) || os.IsPermission(err) {
			reason = ReasonNotFound
		}
		return nil, &InvocationError{
			Helper:     inv.Executable,
			Subcommand: inv.subcommand(),
			Reason:     reason,
			Err:        err,
		}
	}

	if err := cmd.Wait(); err != nil {
		ierr := &InvocationError{
			Helper:     inv.Executable,
			Subcommand: inv.subcommand(),
			Reason:     ReasonExitStatus,
			Err:        err,
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ierr.ExitCode = exitErr.ExitCode()
		} else {
			ierr.Reason = ReasonStartFailed
		}

		return nil, ierr
	}

	if !inv.CaptureOutput {
		return nil, nil
	}

	return stdout.Bytes(), nil
}

func (h *Helper) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stdout
}

func (h *Helper) errOut() io.Writer {
	if h.Err != nil {
		return h.Err
	}
	return os.Stderr
}

func (h *Helper) logger() logrus.FieldLogger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}
