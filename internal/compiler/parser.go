package compiler

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

const maxLineSize = 1 << 20

var reservedNames = map[string]bool{
	domain.KeywordStates:   true,
	domain.KeywordAlphabet: true,
	domain.MarkerAccept:    true,
	domain.MarkerReject:    true,
	string(domain.Blank):   true,
}

// ParseError reports a malformed line. It is fatal to loading.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %s", domain.ErrParse, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return domain.ErrParse
}

// Parser is responsible for converting description text into a candidate Description.
// It checks the shape of every line; cross-line consistency is left to the validator,
// except for the state-count header, which is governed by the header policy.
type Parser struct {
	policy domain.HeaderPolicy
	logger *slog.Logger
	name   string
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger used for lenient-mode warnings.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithName labels the resulting Description (usually the file name).
func WithName(name string) ParserOption {
	return func(p *Parser) {
		p.name = name
	}
}

// NewParser creates a parser. The header policy is a required argument:
// callers must decide whether a header mismatch is a warning or an error.
func NewParser(policy domain.HeaderPolicy, opts ...ParserOption) *Parser {
	p := &Parser{
		policy: policy,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString parses a description held in memory.
func (p *Parser) ParseString(text string) (*Description, error) {
	return p.Parse(strings.NewReader(text))
}

// Parse reads a description line by line.
func (p *Parser) Parse(r io.Reader) (*Description, error) {
	desc := &Description{Name: p.name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := p.parseLine(desc, lineNo, scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}

	if err := p.checkHeader(desc); err != nil {
		return nil, err
	}
	return desc, nil
}

func (p *Parser) parseLine(desc *Description, lineNo int, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "//") {
		return nil
	}

	switch {
	case fields[0] == domain.KeywordStates:
		return p.parseHeader(desc, lineNo, fields)
	case fields[0] == domain.KeywordAlphabet:
		return p.parseAlphabet(desc, lineNo, fields)
	case fields[0] == domain.KeywordStart && len(fields) == 2:
		if err := checkStateName(fields[1], lineNo); err != nil {
			return err
		}
		desc.Starts = append(desc.Starts, Declaration{Name: fields[1], Role: domain.RoleStart, Line: lineNo})
		return nil
	case len(fields) == 1:
		if err := checkStateName(fields[0], lineNo); err != nil {
			return err
		}
		desc.Declarations = append(desc.Declarations, Declaration{Name: fields[0], Role: domain.RoleOrdinary, Line: lineNo})
		return nil
	case len(fields) == 2:
		return p.parseRole(desc, lineNo, fields)
	case len(fields) == 5:
		return p.parseRule(desc, lineNo, fields)
	default:
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("wrong token count %d (expected a declaration, a directive or a 5-token transition)", len(fields))}
	}
}

func (p *Parser) parseHeader(desc *Description, lineNo int, fields []string) error {
	if desc.Header != nil {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("duplicate %q header (first on line %d)", domain.KeywordStates, desc.Header.Line)}
	}
	if len(fields) != 2 {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("%q header takes exactly one count", domain.KeywordStates)}
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("invalid state count %q", fields[1])}
	}
	desc.Header = &Header{Count: n, Line: lineNo}
	return nil
}

func (p *Parser) parseAlphabet(desc *Description, lineNo int, fields []string) error {
	if desc.AlphabetLine != 0 {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("duplicate %q line (first on line %d)", domain.KeywordAlphabet, desc.AlphabetLine)}
	}
	if len(fields) < 2 {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("%q line is missing its symbol count", domain.KeywordAlphabet)}
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("invalid alphabet count %q", fields[1])}
	}

	symbols := fields[2:]
	if len(symbols) != n {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("alphabet declares %d symbols but lists %d", n, len(symbols))}
	}

	seen := make(map[string]bool, n)
	alphabet := make([]domain.Symbol, 0, n)
	for _, s := range symbols {
		if domain.Symbol(s).IsBlank() {
			return &ParseError{Line: lineNo, Reason: fmt.Sprintf("blank symbol %q is implicit and cannot be declared", domain.Blank)}
		}
		if utf8.RuneCountInString(s) != 1 {
			return &ParseError{Line: lineNo, Reason: fmt.Sprintf("symbol %q must be a single character", s)}
		}
		if seen[s] {
			return &ParseError{Line: lineNo, Reason: fmt.Sprintf("symbol %q listed twice", s)}
		}
		seen[s] = true
		alphabet = append(alphabet, domain.Symbol(s))
	}

	desc.Alphabet = alphabet
	desc.AlphabetLine = lineNo
	return nil
}

func (p *Parser) parseRole(desc *Description, lineNo int, fields []string) error {
	if err := checkStateName(fields[0], lineNo); err != nil {
		return err
	}
	role, err := domain.ParseRoleMarker(fields[1])
	if err != nil {
		return &ParseError{Line: lineNo, Reason: err.Error()}
	}
	desc.Declarations = append(desc.Declarations, Declaration{Name: fields[0], Role: role, Line: lineNo})
	return nil
}

func (p *Parser) parseRule(desc *Description, lineNo int, fields []string) error {
	if err := checkStateName(fields[0], lineNo); err != nil {
		return err
	}
	if err := checkStateName(fields[2], lineNo); err != nil {
		return err
	}
	move, err := domain.ParseMove(fields[4])
	if err != nil {
		return &ParseError{Line: lineNo, Reason: err.Error()}
	}
	desc.Rules = append(desc.Rules, Rule{
		State: fields[0],
		Read:  domain.Symbol(fields[1]),
		Next:  fields[2],
		Write: domain.Symbol(fields[3]),
		Move:  move,
		Line:  lineNo,
	})
	return nil
}

// checkHeader compares the state-count header with the distinct labels seen.
func (p *Parser) checkHeader(desc *Description) error {
	seen := len(desc.Labels())

	var msg string
	line := 1
	switch {
	case desc.Header == nil:
		msg = fmt.Sprintf("missing %q header (%d distinct states seen)", domain.KeywordStates, seen)
	case desc.Header.Count != seen:
		msg = fmt.Sprintf("header declares %d states but %d distinct states were seen", desc.Header.Count, seen)
		line = desc.Header.Line
	default:
		return nil
	}

	if p.policy == domain.HeaderStrict {
		return &ParseError{Line: line, Reason: msg}
	}
	desc.Warnings = append(desc.Warnings, fmt.Sprintf("line %d: %s", line, msg))
	p.logger.Warn("state count header mismatch", "name", desc.Name, "line", line, "detail", msg)
	return nil
}

func checkStateName(name string, lineNo int) error {
	if reservedNames[name] {
		return &ParseError{Line: lineNo, Reason: fmt.Sprintf("reserved word %q cannot name a state", name)}
	}
	return nil
}
