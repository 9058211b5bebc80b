package ecgfusion

import (
	"bytes"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// sniffBytes is how much of a table is handed to the delimiter detector.
const sniffBytes = 64 * 1024

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. Numeric tables written by
// numpy's savetxt are whitespace delimited, and those come back as ' '.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && delimiters[0] != "" {
		return rune(delimiters[0][0])
	}

	return ','
}

// DetermineDelimiterBytes is DetermineDelimiter for a table that is already in
// memory. Only the head of the table is inspected. If no line of the head
// contains a comma, semicolon or tab, the table is treated as whitespace
// delimited.
func DetermineDelimiterBytes(table []byte) rune {
	head := table
	if len(head) > sniffBytes {
		head = head[:sniffBytes]
		if i := bytes.LastIndexByte(head, '\n'); i > 0 {
			head = head[:i+1]
		}
	}

	if !bytes.ContainsAny(head, ",;\t") {
		if strings.TrimSpace(string(head)) == "" {
			return ','
		}
		return ' '
	}

	return DetermineDelimiter(bytes.NewReader(head))
}
