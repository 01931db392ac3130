package membership

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MalformedRowError reports an input line that is not a two-token record.
type MalformedRowError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s:%d: malformed row %q: %s", e.Path, e.Line, e.Text, e.Reason)
}

// ScanPairs calls fn for every "<a> <b>" line of the file. Blank lines and lines
// starting with '#' are skipped; every other line must have exactly two tokens.
func ScanPairs(path string, fn func(line int, a, b string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 2 {
			return &MalformedRowError{Path: path, Line: lineNo, Text: line,
				Reason: fmt.Sprintf("expected 2 fields, got %d", len(parts))}
		}
		if err := fn(lineNo, parts[0], parts[1]); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// ParseNodeID parses a non-negative node identifier.
func ParseNodeID(s string) (NodeID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("node id %q is not an integer", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("node id %d is negative", v)
	}
	return NodeID(v), nil
}

// ReadFile reads a "<node_id> <cluster_label>" membership file.
func ReadFile(path string) (*Membership, error) {
	m := New()
	err := ScanPairs(path, func(line int, a, b string) error {
		node, err := ParseNodeID(a)
		if err != nil {
			return &MalformedRowError{Path: path, Line: line, Text: a + " " + b, Reason: err.Error()}
		}
		m.labels[node] = Label(b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read membership %s: %w", path, err)
	}
	return m, nil
}

// WriteFile writes "<node> <label+1>" lines for nodes 0..len(labels)-1.
func WriteFile(path string, labels []int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for i, label := range labels {
		if i > 0 {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%d %d", i, label+1); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// IntLabels returns the labels of nodes 0..Len()-1 as integers. The membership must cover a
// contiguous zero-based id range with integer labels.
func (m *Membership) IntLabels() ([]int, error) {
	out := make([]int, m.Len())
	for i := range out {
		label, err := m.Lookup(NodeID(i))
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(string(label))
		if err != nil {
			return nil, fmt.Errorf("label %q of node %d is not an integer", label, i)
		}
		out[i] = v
	}
	return out, nil
}

// RelabelFile rewrites a two-column integer file with both columns decremented by one.
// Used to move 1-indexed edge lists and membership files to zero-based identifiers.
func RelabelFile(src, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	err = ScanPairs(src, func(line int, a, b string) error {
		i, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return &MalformedRowError{Path: src, Line: line, Text: a + " " + b, Reason: "first field is not an integer"}
		}
		j, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			return &MalformedRowError{Path: src, Line: line, Text: a + " " + b, Reason: "second field is not an integer"}
		}
		_, err = fmt.Fprintf(w, "%d    %d\n", i-1, j-1)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to relabel %s: %w", src, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return out.Close()
}
