package pkg

import (
	"encoding/json"
	"io"
)

// PrettyPrint writes v as indented JSON followed by a newline
func PrettyPrint(w io.Writer, v any) error {
	message, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(message, '\n'))
	return err
}
