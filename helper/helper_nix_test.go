//go:build !windows

package helper

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepassxc-tools/vault-keepassxc-client/credentials"
)

// CreateTestHelper writes an executable script named name into a temporary
// directory and returns its path. When onPath is set the directory is also
// prepended to PATH for the duration of the test.
func CreateTestHelper(t *testing.T, name string, onPath bool, content string) string {
	t.Helper()

	dirname := t.TempDir()
	filename := filepath.Join(dirname, name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0755))

	if onPath {
		t.Setenv("PATH", strings.Join([]string{dirname, os.Getenv("PATH")}, string(os.PathListSeparator)))
	}

	return filename
}

// recordingHelper returns a script that saves its arguments and standard
// input next to itself before running body.
func recordingHelper(t *testing.T, body string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	content := fmt.Sprintf(`#!/bin/sh
printf '%%s\n' "$@" > %[1]s/args
cat > %[1]s/stdin
%[2]s
`, dir, body)

	return CreateTestHelper(t, "git-credential-keepassxc", false, content), dir
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func TestHelper_Run_Get(t *testing.T) {
	path, dir := recordingHelper(t, `echo '{"password":"secret123"}'`)

	var stderr bytes.Buffer
	h := &Helper{Path: path, Err: &stderr}

	out, err := h.Run(context.Background(), credentials.NewGetRequest("default", "Ansible"))
	require.NoError(t, err)

	assert.Equal(t, "{\"password\":\"secret123\"}\n", string(out))
	assert.Equal(t, "get\n--json\n--no-filter\n--group\nAnsible\n", readFile(t, filepath.Join(dir, "args")))
	assert.Equal(t, "url=ansible-vault://default/\n", readFile(t, filepath.Join(dir, "stdin")))
	assert.Empty(t, stderr.String())
}

func TestHelper_Run_Set(t *testing.T) {
	path, dir := recordingHelper(t, `echo stored; echo warning >&2`)

	var stdout, stderr bytes.Buffer
	h := &Helper{Path: path, Out: &stdout, Err: &stderr}

	out, err := h.Run(context.Background(), credentials.NewSetRequest("db1", "Ansible", "generated"))
	require.NoError(t, err)

	assert.Nil(t, out, "store output is not captured")
	assert.Equal(t, "stored\n", stdout.String())
	assert.Equal(t, "warning\n", stderr.String())
	assert.Equal(t, "store\n--no-filter\n--create-in\nAnsible\n--group\nAnsible\n", readFile(t, filepath.Join(dir, "args")))
	assert.Equal(t, "password=generated\nurl=ansible-vault://db1/\nusername=db1\n", readFile(t, filepath.Join(dir, "stdin")))
}

func TestHelper_Run_Verbose(t *testing.T) {
	path, dir := recordingHelper(t, `echo '{"password":"x"}'`)

	h := &Helper{Path: path, Verbose: true, Err: &bytes.Buffer{}}

	_, err := h.Run(context.Background(), credentials.NewGetRequest("default", "Ansible"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(dir, "args")), "-vvv\nget\n"))
}

func TestHelper_Run_ExitStatus(t *testing.T) {
	path, _ := recordingHelper(t, `echo '{"password":"ignored"}'; exit 7`)

	h := &Helper{Path: path, Err: &bytes.Buffer{}}

	out, err := h.Run(context.Background(), credentials.NewGetRequest("default", "Ansible"))
	require.Error(t, err)
	assert.Nil(t, out, "output of a failed helper must not be returned")

	var ierr *InvocationError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ReasonExitStatus, ierr.Reason)
	assert.Equal(t, 7, ierr.ExitCode)
	assert.Equal(t, "get", ierr.Subcommand)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "exit status 7")
}

func TestHelper_Run_IgnoresStdin(t *testing.T) {
	path := CreateTestHelper(t, "no-stdin-helper", false, "#!/bin/sh\necho '{\"password\":\"quick\"}'\n")

	h := &Helper{Path: path}

	out, err := h.Run(context.Background(), credentials.NewGetRequest("default", "Ansible"))
	require.NoError(t, err)
	assert.Equal(t, "{\"password\":\"quick\"}\n", string(out))
}

func TestHelper_Run_OnPath(t *testing.T) {
	CreateTestHelper(t, "path-credential-helper", true, "#!/bin/sh\ncat >/dev/null\necho '{\"password\":\"p\"}'\n")

	h := &Helper{Path: "path-credential-helper"}

	out, err := h.Run(context.Background(), credentials.NewGetRequest("default", "Ansible"))
	require.NoError(t, err)
	assert.Equal(t, "{\"password\":\"p\"}\n", string(out))
}

func TestHelper_Run_NotExecutable(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "not-executable")
	require.NoError(t, os.WriteFile(filename, []byte("#!/bin/sh\n"), 0644))

	h := &Helper{Path: filename}

	_, err := h.Run(context.Background(), credentials.NewGetRequest("default", "Ansible"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestHelper_Run_Cancellation(t *testing.T) {
	path, dir := recordingHelper(t, `echo '{"password":"x"}'`)

	h := &Helper{Path: path}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Run(ctx, credentials.NewGetRequest("default", "Ansible"))
	require.Error(t, err)
	assert.True(t, IsInvocationError(err))
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "args"))
	assert.True(t, os.IsNotExist(statErr), "helper must not run after cancellation")
}
