package export

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

// Terminals silently truncate OSC52 payloads past a few hundred KB; a
// whole-repo diff can easily exceed that.
const maxClipboardPayload = 512 * 1024

// CopyToClipboard writes the content to the terminal clipboard using OSC52.
// The writer defaults to stdout when nil.
func CopyToClipboard(content string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	if len(encoded) > maxClipboardPayload {
		return errors.New("diff too large for the terminal clipboard, use --export-file instead")
	}
	_, err := fmt.Fprintf(w, "]52;c;%s", encoded)
	return err
}
