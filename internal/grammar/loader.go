package grammar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"
)

const (
	openBlock  = "{"
	closeBlock = "}"

	maxLineSize = 1024 * 1024
)

// Loader reads grammar files into rule tables
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader; a nil logger discards log output
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{logger: logger}
}

// Load parses grammar text. Only read errors are returned.
func Load(r io.Reader) (*RuleTable, error) {
	return NewLoader(nil).Load(r)
}

// LoadFile parses the grammar file at path, see Loader.LoadFile
func LoadFile(path string) (*RuleTable, error) {
	return NewLoader(nil).LoadFile(path)
}

// LoadFile opens and parses the grammar file at path. A file that cannot be
// opened yields an empty table and no error.
func (l *Loader) LoadFile(path string) (*RuleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		l.logger.Debug("grammar file unavailable, using empty rule set", "path", path, "error", err)
		return NewRuleTable(), nil
	}
	defer f.Close()

	return l.loadOpened(path, f)
}

// loadOpened parses an already opened grammar source
func (l *Loader) loadOpened(path string, r io.Reader) (*RuleTable, error) {
	table, err := l.Load(r)
	if err != nil {
		if errors.Is(err, syscall.EISDIR) {
			// Directories open fine but fail on the first read
			l.logger.Debug("grammar file unreadable, using empty rule set", "path", path, "error", err)
			return NewRuleTable(), nil
		}
		return nil, fmt.Errorf("failed to read grammar %s: %w", path, err)
	}

	l.logger.Debug("grammar loaded", "path", path, "rules", table.Len())
	return table, nil
}

// Load reads rule blocks from r. A line that is exactly "{" opens a block and
// a line that is exactly "}" closes it; the lines in between are productions,
// the first of which also names the rule. Lines outside blocks are ignored.
func (l *Loader) Load(r io.Reader) (*RuleTable, error) {
	table := NewRuleTable()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		inBlock     bool
		blockLine   int
		productions []string
		lineNo      int
	)

	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		if !inBlock {
			if line == openBlock {
				inBlock = true
				blockLine = lineNo
				productions = nil
			}
			continue
		}

		if line == closeBlock {
			table.add(newRule(productions))
			inBlock = false
			continue
		}

		productions = append(productions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if inBlock {
		l.logger.Warn("dropping unterminated rule block", "line", blockLine, "productions", len(productions))
	}

	return table, nil
}

// newRule builds a rule from the lines of one block
func newRule(lines []string) Rule {
	if len(lines) == 0 {
		// "{" directly followed by "}"
		lines = []string{""}
	}
	return Rule{
		Name:        lines[0],
		Productions: lines,
	}
}
