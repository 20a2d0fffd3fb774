package envelope

import "io"

// Write serializes env to w using the given format.
func Write(w io.Writer, env Envelope, format Format) error {
	switch format {
	case FormatNDJSON:
		return WriteNDJSON(w, env)
	case FormatToon:
		return WriteToon(w, env)
	case FormatText:
		return WriteText(w, env)
	default:
		return WriteJSON(w, env)
	}
}
