package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
)

// ReadInputs reads one input tape per line. Surrounding whitespace is trimmed and
// blank lines or lines starting with "//" are skipped; write "_" for an empty tape.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}
	return inputs, nil
}

// Sink consumes batch outcomes.
type Sink interface {
	Write(o Outcome) error
}

// TextSink writes one human-readable line per outcome.
type TextSink struct {
	w io.Writer
}

// NewTextSink creates a sink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) Write(o Outcome) error {
	if o.Record == nil {
		_, err := fmt.Fprintf(s.w, "%-20s error: %v\n", o.Input, o.Err)
		return err
	}
	v := o.Record.Result.Verdict
	_, err := fmt.Fprintf(s.w, "%-20s %-20s steps=%-8d state=%s tape=%s\n",
		o.Input, v.Kind, o.Record.Result.Steps, v.State, o.Record.Result.Tape.Trimmed())
	return err
}

// JSONSink writes one JSON object per line.
type JSONSink struct {
	enc *json.Encoder
}

// NewJSONSink creates a JSON-Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

type jsonOutcome struct {
	Input  string            `json:"input"`
	Record *domain.RunRecord `json:"record,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (s *JSONSink) Write(o Outcome) error {
	out := jsonOutcome{Input: o.Input, Record: o.Record}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return s.enc.Encode(out)
}
