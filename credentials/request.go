package credentials

import (
	"fmt"
	"net/url"
)

// URLScheme is the scheme of the pseudo-URL identifying a vault password.
const URLScheme = "ansible-vault"

// Operation selects what a request asks the helper to do.
type Operation string

const (
	// OperationGet retrieves a stored password.
	OperationGet Operation = "get"
	// OperationSet stores a new password.
	OperationSet Operation = "set"
)

// Payload field names.
const (
	FieldURL      = "url"
	FieldUsername = "username"
	FieldPassword = "password"
)

// Request is a credential request for a single vault identity. It is
// implemented by GetRequest and SetRequest only.
type Request interface {
	// Operation returns the requested operation.
	Operation() Operation
	// Group returns the group the request is scoped to.
	Group() string
	// Fields returns the fields sent to the helper in the payload.
	Fields() map[string]string

	isRequest()
}

// VaultURL returns the pseudo-URL for a vault identity.
func VaultURL(identity string) string {
	return fmt.Sprintf("%s://%s/", URLScheme, identity)
}

// ValidateIdentity checks that identity can be embedded as the host of a
// vault URL.
func ValidateIdentity(identity string) error {
	if identity == "" {
		return &ValidationError{Identity: identity, Reason: "must not be empty"}
	}

	u, err := url.Parse(VaultURL(identity))
	if err != nil {
		return &ValidationError{Identity: identity, Reason: "must be a valid URL hostname", Err: err}
	}
	if u.Host != identity || u.Path != "/" || u.User != nil || u.RawQuery != "" || u.Fragment != "" {
		return &ValidationError{Identity: identity, Reason: "must be a valid URL hostname"}
	}

	return nil
}

// GetRequest asks for the password stored for an identity.
type GetRequest struct {
	url   string
	group string
}

// NewGetRequest builds a lookup request.
func NewGetRequest(identity, group string) GetRequest {
	return GetRequest{url: VaultURL(identity), group: group}
}

func (r GetRequest) Operation() Operation { return OperationGet }
func (r GetRequest) Group() string { return r.group }
func (r GetRequest) URL() string { return r.url }

func (r GetRequest) Fields() map[string]string {
	return map[string]string{FieldURL: r.url}
}

func (GetRequest) isRequest() {}

// SetRequest stores a password for an identity. The identity doubles as
// the entry's username.
type SetRequest struct {
	url      string
	group    string
	username string
	password string
}

// NewSetRequest builds a store request.
func NewSetRequest(identity, group, password string) SetRequest {
	return SetRequest{
		url:      VaultURL(identity),
		group:    group,
		username: identity,
		password: password,
	}
}

func (r SetRequest) Operation() Operation { return OperationSet }
func (r SetRequest) Group() string { return r.group }
func (r SetRequest) URL() string { return r.url }
func (r SetRequest) Username() string { return r.username }
func (r SetRequest) Password() string { return r.password }

func (r SetRequest) Fields() map[string]string {
	return map[string]string{
		FieldURL:      r.url,
		FieldUsername: r.username,
		FieldPassword: r.password,
	}
}

func (SetRequest) isRequest() {}

var (
	_ Request = GetRequest{}
	_ Request = SetRequest{}
)
