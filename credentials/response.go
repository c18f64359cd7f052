package credentials

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["password"],
  "properties": {
    "password": {"type": "string"}
  }
}`

// Response is the helper's answer to a GetRequest.
type Response struct {
	Password string `json:"password"`
}

// DecodeResponse parses the JSON document printed by the helper for a
// lookup. The password is returned exactly as stored.
func DecodeResponse(data []byte) (Response, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(responseSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Response{}, &DecodeError{Err: errors.Wrap(err, "invalid JSON")}
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return Response{}, &DecodeError{Err: errors.New(strings.Join(msgs, "; "))}
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, &DecodeError{Err: err}
	}

	return resp, nil
}
