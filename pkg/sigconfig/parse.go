package sigconfig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dfaudit/sigtrack/pkg/rangeset"
)

// ParseResult carries the loaded registry plus a count of lines that
// failed to parse. A non-zero ErrorCount is this tool's configuration-error
// condition (spec: exit code 2, ingestion never starts).
type ParseResult struct {
	Registry   *Registry
	ErrorCount int
}

// Parse reads the line-oriented signature-configuration grammar:
//
//	# a comment
//	signature "<name>" plate <plate> visits <rangeset> \
//	    [ignore <rangeset>] sigplate <sig_plate> sigfields <rangeset>
//
// Backslash-continued lines are joined before tokenizing. sigplate
// defaults to plate when the clause is omitted. Unknown keywords or a
// missing required clause increment ErrorCount instead of stopping the
// scan, so every error in the file is reported in one pass.
func Parse(r io.Reader) (*ParseResult, error) {
	reg := NewRegistry()
	result := &ParseResult{Registry: reg}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if pending != "" {
			line = pending + " " + strings.TrimSpace(line)
			pending = ""
		}
		if strings.HasSuffix(strings.TrimRight(line, " \t"), `\`) {
			pending = strings.TrimSuffix(strings.TrimRight(line, " \t"), `\`)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if _, err := parseStatement(reg, trimmed); err != nil {
			result.ErrorCount++
		}
	}
	if pending != "" {
		result.ErrorCount++
	}
	if err := scanner.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func parseStatement(reg *Registry, line string) (*Config, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 || tokens[0] != "signature" {
		return nil, fmt.Errorf("sigconfig: expected 'signature', got %q", line)
	}

	cfg := &Config{}
	haveSigPlate := false

	i := 1
	if i >= len(tokens) {
		return nil, fmt.Errorf("sigconfig: missing signature name")
	}
	cfg.Name = tokens[i]
	i++

	for i < len(tokens) {
		switch tokens[i] {
		case "plate":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("sigconfig: missing plate value")
			}
			cfg.Plate, err = strconv.Atoi(tokens[i])
			if err != nil {
				return nil, fmt.Errorf("sigconfig: bad plate %q", tokens[i])
			}
			i++
		case "visits":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("sigconfig: missing visits value")
			}
			cfg.Visits, err = rangeset.Parse(tokens[i])
			if err != nil {
				return nil, fmt.Errorf("sigconfig: bad visits: %w", err)
			}
			i++
		case "ignore":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("sigconfig: missing ignore value")
			}
			cfg.IgnoreFields, err = rangeset.Parse(tokens[i])
			if err != nil {
				return nil, fmt.Errorf("sigconfig: bad ignore: %w", err)
			}
			i++
		case "sigplate":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("sigconfig: missing sigplate value")
			}
			cfg.SigPlate, err = strconv.Atoi(tokens[i])
			if err != nil {
				return nil, fmt.Errorf("sigconfig: bad sigplate %q", tokens[i])
			}
			haveSigPlate = true
			i++
		case "sigfields":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("sigconfig: missing sigfields value")
			}
			cfg.SigFields, err = rangeset.Parse(tokens[i])
			if err != nil {
				return nil, fmt.Errorf("sigconfig: bad sigfields: %w", err)
			}
			i++
		default:
			return nil, fmt.Errorf("sigconfig: unknown keyword %q", tokens[i])
		}
	}

	if cfg.Plate == 0 || cfg.Visits.IsEmpty() || cfg.SigFields.IsEmpty() {
		return nil, fmt.Errorf("sigconfig: missing required clause in %q", line)
	}
	if !haveSigPlate {
		cfg.SigPlate = cfg.Plate
	}

	reg.Add(cfg)
	return cfg, nil
}

// tokenize splits a statement on whitespace, treating a double-quoted
// span as a single token with the quotes stripped.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var b strings.Builder
	inQuote := false
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case (c == ' ' || c == '\t') && !inQuote:
			flush()
		default:
			b.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("sigconfig: unterminated quoted string")
	}
	flush()
	return tokens, nil
}
