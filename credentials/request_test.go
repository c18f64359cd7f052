package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultURL(t *testing.T) {
	for _, identity := range []string{"default", "db1", "prod.example.com", "a-b"} {
		assert.Equal(t, "ansible-vault://"+identity+"/", VaultURL(identity))
	}
}

func TestNewGetRequest(t *testing.T) {
	req := NewGetRequest("default", "Ansible")

	assert.Equal(t, OperationGet, req.Operation())
	assert.Equal(t, "Ansible", req.Group())
	assert.Equal(t, "ansible-vault://default/", req.URL())
	assert.Equal(t, map[string]string{"url": "ansible-vault://default/"}, req.Fields())
}

func TestNewSetRequest(t *testing.T) {
	req := NewSetRequest("db1", "Ansible", "hunter2")

	assert.Equal(t, OperationSet, req.Operation())
	assert.Equal(t, "Ansible", req.Group())
	assert.Equal(t, "db1", req.Username())
	assert.Equal(t, "hunter2", req.Password())
	assert.Equal(t, map[string]string{
		"url":      "ansible-vault://db1/",
		"username": "db1",
		"password": "hunter2",
	}, req.Fields())
}

func TestValidateIdentity(t *testing.T) {
	for _, identity := range []string{"default", "db1", "prod.example.com", "a-b_c"} {
		t.Run(identity, func(t *testing.T) {
			assert.NoError(t, ValidateIdentity(identity))
		})
	}

	for _, tc := range []struct {
		name     string
		identity string
	}{
		{name: "empty", identity: ""},
		{name: "path", identity: "a/b"},
		{name: "query", identity: "a?b"},
		{name: "fragment", identity: "a#b"},
		{name: "userinfo", identity: "user@host"},
		{name: "space", identity: "my vault"},
		{name: "newline", identity: "a\nb"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIdentity(tc.identity)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "expected a ValidationError, got %T", err)
		})
	}
}
