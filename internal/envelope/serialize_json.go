package envelope

import (
	"bytes"
	"encoding/json"
	"io"
)

// WriteJSON pretty-prints one envelope per call.
func WriteJSON(w io.Writer, env Envelope) error {
	buf, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	buf = append(buf, '\n')
	_, err = w.Write(buf)
	return err
}

// WriteNDJSON writes one compact, newline-terminated line per call.
func WriteNDJSON(w io.Writer, env Envelope) error {
	buf, err := json.Marshal(env)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	out.Write(buf)
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// ToJSONValue round-trips the envelope through encoding/json into a generic
// tree, used by the TOON encoder which operates on untyped JSON.
func ToJSONValue(env Envelope) (any, error) {
	buf, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, err
	}
	return v, nil
}
