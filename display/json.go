package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/LaBatata101/python-lsp/errors"
)

// MarshalJSON marshals JSON with pretty formatting for human-readable output
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// MarshalYAML marshals YAML with two-space indentation
func MarshalYAML(v interface{}) ([]byte, error) {
	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// OutputJSON marshals v and writes it to w followed by a newline
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// OutputYAML marshals v and writes it to w
func OutputYAML(w io.Writer, v interface{}) error {
	data, err := MarshalYAML(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}
	_, err = w.Write(data)
	return err
}

// Output writes v as JSON or YAML. Text output is command specific and is
// rejected here.
func Output(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		return OutputJSON(w, v)
	case FormatYAML:
		return OutputYAML(w, v)
	}
	return errors.WithHint(
		errors.NewInvalidRequestError("unsupported output format %q", format),
		"use one of text, json, yaml")
}
