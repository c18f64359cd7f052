package credentials

import (
	"bytes"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const redacted = "********"

// EncodePayload serializes fields as newline-terminated key=value lines
// sorted by key. No fields yield an empty payload.
func EncodePayload(fields map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "" || strings.ContainsAny(k, "=\n\x00") {
			return nil, errors.Errorf("invalid payload key %q", k)
		}
		if strings.ContainsAny(fields[k], "\n\x00") {
			return nil, errors.Errorf("value of payload key %q contains a newline or NUL byte", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(fields[k])
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// RedactedPayload renders the payload for fields with the password hidden.
func RedactedPayload(fields map[string]string) string {
	safe := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == FieldPassword {
			v = redacted
		}
		safe[k] = v
	}

	data, err := EncodePayload(safe)
	if err != nil {
		return "<invalid payload>"
	}
	return string(data)
}
