// Package tabular reads the plain-text tables exchanged with the classifiers
// (decision matrices, label lists, evidence distributions) and writes
// prediction lists back out.
//
// Tables may be comma, semicolon, tab or whitespace delimited. Blank lines and
// lines starting with '#' are ignored.
package tabular

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/carbocation/ecgfusion"
)

// ErrEmpty is returned for tables without any data rows.
var ErrEmpty = errors.New("tabular: no data rows")

// row is one data line of a table, with its 1-based line number.
type row struct {
	line   int
	fields []string
}

// splitTable breaks a table into trimmed fields, detecting the delimiter from
// the head of the table.
func splitTable(table []byte) ([]row, error) {
	delim := ecgfusion.DetermineDelimiterBytes(table)

	var out []row

	scanner := bufio.NewScanner(bytes.NewReader(table))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var fields []string
		if delim == ' ' {
			fields = strings.Fields(text)
		} else {
			fields = strings.Split(text, string(delim))
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
		}

		out = append(out, row{line: line, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, ErrEmpty
	}

	return out, nil
}

// commaSeparated rewrites rows as a comma delimited table.
func commaSeparated(rows []row) []byte {
	var buf bytes.Buffer
	for _, r := range rows {
		buf.WriteString(strings.Join(r.fields, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func lineError(line int, err error) error {
	return fmt.Errorf("line %d: %w", line, err)
}
