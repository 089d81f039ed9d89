package cookies

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/afero"
)

const sqliteMagic = "SQLite format 3\x00"

// DetectFormat sniffs the jar at path. A SQLite database is taken to be a
// Firefox profile. A Netscape header, an empty file and a missing file all
// mean Netscape, the latter two because Apply will create it.
func DetectFormat(fsys afero.Fs, path string) (Format, error) {
	f, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return FormatNetscape, nil
	}
	if err != nil {
		return "", fmt.Errorf("open cookie jar: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat cookie jar: %w", err)
	}
	if info.IsDir() {
		return "", ErrJarIsDirectory
	}

	head := make([]byte, 64)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read cookie jar: %w", err)
	}
	head = head[:n]

	switch {
	case n == 0:
		return FormatNetscape, nil
	case bytes.HasPrefix(head, []byte(sqliteMagic)):
		return FormatFirefox, nil
	case bytes.HasPrefix(head, []byte(netscapeHeader)), bytes.HasPrefix(head, []byte(netscapeAltHeader)):
		return FormatNetscape, nil
	case looksLikeNetscapeRecord(head):
		return FormatNetscape, nil
	}

	return "", ErrUnknownFormat
}

// looksLikeNetscapeRecord accepts headerless jars whose first line already
// has the seven tab-separated fields.
func looksLikeNetscapeRecord(head []byte) bool {
	line, _, _ := bytes.Cut(head, []byte("\n"))
	line = bytes.TrimPrefix(line, []byte(httpOnlyPrefix))
	return bytes.Count(line, []byte("\t")) == netscapeFieldCount-1
}
