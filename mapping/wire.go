// SPDX-License-Identifier: MIT

package mapping

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/quboembed/chimera"
)

// entryErrorf wraps err with the entry that triggered it.
func entryErrorf(e Entry, err error) error {
	return fmt.Errorf("FromEntries(%d,%d): %w", e.I, e.J, err)
}

// lineErrorf wraps ErrMalformedLine with its line number and a reason.
func lineErrorf(line int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s: %w", line, fmt.Sprintf(format, args...), ErrMalformedLine)
}

// Encode writes the weight file: the description on the first line, then
// one "i j w" line per non-zero canonical cell in row-major order.
// Newlines inside description are replaced by spaces.
func (m *Mapping) Encode(w io.Writer, description string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.ReplaceAll(description, "\n", " "))
	bw.WriteByte('\n')
	var buf []byte
	for _, e := range m.Entries() {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(e.I), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(e.J), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, e.Value, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode parses a weight file into its description and entries. Blank lines
// after the description are skipped.
func Decode(r io.Reader) (string, []Entry, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", nil, err
		}
		return "", nil, lineErrorf(1, "missing description")
	}
	description := sc.Text()
	var entries []Entry
	for line := 2; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		e, err := parseEntry(line, text)
		if err != nil {
			return "", nil, err
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return "", nil, err
	}
	return description, entries, nil
}

func parseEntry(line int, text string) (Entry, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Entry{}, lineErrorf(line, "want 3 fields, got %d", len(fields))
	}
	i, err := strconv.Atoi(fields[0])
	if err != nil {
		return Entry{}, lineErrorf(line, "qubit %q", fields[0])
	}
	j, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, lineErrorf(line, "qubit %q", fields[1])
	}
	if i > j {
		return Entry{}, lineErrorf(line, "pair (%d,%d) not canonical", i, j)
	}
	w, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Entry{}, lineErrorf(line, "weight %q", fields[2])
	}
	return Entry{I: chimera.Qubit(i), J: chimera.Qubit(j), Value: w}, nil
}

// Load decodes a weight file and rebuilds its table over topo.
func Load(topo chimera.Topology, r io.Reader) (*Mapping, string, error) {
	description, entries, err := Decode(r)
	if err != nil {
		return nil, "", err
	}
	m, err := FromEntries(topo, entries)
	if err != nil {
		return nil, "", err
	}
	return m, description, nil
}
