package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	turing "github.com/WizardOfMenlo/turing-machine"
	"github.com/WizardOfMenlo/turing-machine/internal/logging"
	"github.com/WizardOfMenlo/turing-machine/internal/presentation/graph"
	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/WizardOfMenlo/turing-machine/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MachineArgs are the arguments shared by every tool.
type MachineArgs struct {
	Machine   string `json:"machine,omitempty"`
	Program   string `json:"program,omitempty"`
	Input     string `json:"input,omitempty"`
	Mode      string `json:"mode,omitempty"`
	StepLimit uint64 `json:"step_limit,omitempty"`
}

func (a MachineArgs) request() runner.Request {
	return runner.Request{
		Machine:   a.Machine,
		Program:   a.Program,
		Input:     a.Input,
		Mode:      a.Mode,
		StepLimit: a.StepLimit,
	}
}

// ValidateResponse describes a program that loaded successfully.
type ValidateResponse struct {
	Name        string   `json:"name" jsonschema_description:"Program name"`
	States      int      `json:"states" jsonschema_description:"Number of states"`
	Symbols     int      `json:"symbols" jsonschema_description:"Alphabet size, blank excluded"`
	Transitions int      `json:"transitions" jsonschema_description:"Number of transitions"`
	Digest      string   `json:"digest" jsonschema_description:"Content hash of the program"`
	Warnings    []string `json:"warnings,omitempty" jsonschema_description:"Non-fatal diagnostics"`
}

// RunResponse is the outcome of run_machine.
type RunResponse struct {
	ID      string         `json:"id" jsonschema_description:"Run ID"`
	Verdict domain.Verdict `json:"verdict" jsonschema_description:"How the run ended"`
	Steps   uint64         `json:"steps" jsonschema_description:"Transitions applied"`
	Tape    string         `json:"tape" jsonschema_description:"Final tape without surrounding blanks"`
}

// Server exposes a runner.Service as MCP tools.
type Server struct {
	svc       *runner.Service
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger. It must not write to stdout
// when serving over stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *runner.Service, opts ...Option) *Server {
	s := &Server{
		svc:       svc,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func machineParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("machine", mcp.Description("Name of a stored machine description")),
		mcp.WithString("program", mcp.Description("Machine description text; takes precedence over machine")),
	}
}

func runParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("input", mcp.Description("Initial tape, one symbol per character; empty for a blank tape")),
		mcp.WithString("mode", mcp.Description("strict (missing transition is Undefined) or compat (implicit reject)")),
		mcp.WithNumber("step_limit", mcp.Description("Maximum number of transitions to apply")),
	}
}

func (s *Server) registerTools() {
	// TOOL: validate_machine
	validateOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Parse and validate a Turing machine description. Reports every defect found."),
		mcp.WithOutputSchema[ValidateResponse](),
	}, machineParams()...)
	s.mcpServer.AddTool(mcp.NewTool("validate_machine", validateOpts...), mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: run_machine
	runOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Run a Turing machine on an input tape and return the verdict."),
		mcp.WithOutputSchema[RunResponse](),
	}, append(machineParams(), runParams()...)...)
	s.mcpServer.AddTool(mcp.NewTool("run_machine", runOpts...), mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: trace_machine
	traceOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Run a Turing machine step by step and return the snapshots (state, head, tape window)."),
		mcp.WithOutputSchema[runner.TraceResult](),
	}, append(machineParams(), runParams()...)...)
	s.mcpServer.AddTool(mcp.NewTool("trace_machine", traceOpts...), mcp.NewStructuredToolHandler(s.handleTrace))

	// TOOL: list_machines
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the stored machine descriptions."),
	), s.handleList)

	// TOOL: graph_machine
	s.mcpServer.AddTool(mcp.NewTool("graph_machine",
		append([]mcp.ToolOption{mcp.WithDescription("Render a machine as a Mermaid state diagram.")}, machineParams()...)...,
	), s.handleGraph)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args MachineArgs) (ValidateResponse, error) {
	prog, err := s.svc.Program(args.request())
	if err != nil {
		return ValidateResponse{}, err
	}
	return ValidateResponse{
		Name:        prog.Name(),
		States:      prog.NumStates(),
		Symbols:     prog.NumSymbols() - 1,
		Transitions: len(prog.Transitions()),
		Digest:      prog.Digest(),
		Warnings:    prog.Warnings(),
	}, nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args MachineArgs) (RunResponse, error) {
	rec, err := s.svc.Run(ctx, args.request())
	if err != nil {
		s.logger.Warn("MCP run rejected", "machine", args.Machine, "err", err)
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}
	return RunResponse{
		ID:      rec.ID,
		Verdict: rec.Result.Verdict,
		Steps:   rec.Result.Steps,
		Tape:    rec.Result.Tape.Trimmed(),
	}, nil
}

func (s *Server) handleTrace(ctx context.Context, request mcp.CallToolRequest, args MachineArgs) (runner.TraceResult, error) {
	out, err := s.svc.Trace(ctx, args.request())
	if err != nil {
		return runner.TraceResult{}, fmt.Errorf("trace failed: %w", err)
	}
	return *out, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.svc.Machines()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := runner.Request{
		Machine: request.GetString("machine", ""),
		Program: request.GetString("program", ""),
	}
	prog, err := s.svc.Program(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(prog, nil)), nil
}
