package accounts

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// FlattenErrors turns a validation error body such as
//
//	{"username": ["already taken"], "password": ["too short", "too common"]}
//
// into one string of every message, in the order received, separated by
// spaces. Plain strings and nested objects are accepted too.
func FlattenErrors(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	var msgs []string
	if err := collectMessages(dec, &msgs); err != nil {
		return "", err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", errors.New("unexpected data after error body")
	}
	return strings.Join(msgs, " "), nil
}

func collectMessages(dec *json.Decoder, msgs *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch t := tok.(type) {
	case json.Delim:
		object := t == '{'
		for dec.More() {
			if object {
				if _, err := dec.Token(); err != nil { // field name
					return err
				}
			}
			if err := collectMessages(dec, msgs); err != nil {
				return err
			}
		}
		_, err := dec.Token() // closing delimiter
		return err
	case string:
		if s := strings.TrimSpace(t); s != "" {
			*msgs = append(*msgs, s)
		}
	}
	return nil
}

// errorMessage picks the message for a failed response: the flattened body
// when it is JSON, otherwise the raw text. Empty means "use a fallback".
func errorMessage(body []byte) string {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return ""
	}
	if msg, err := FlattenErrors(body); err == nil {
		return msg
	}
	return raw
}
