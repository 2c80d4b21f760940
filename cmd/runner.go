package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"spotlike/internal/auth"
	"spotlike/internal/repositories"
	"spotlike/internal/services"
	"spotlike/internal/shared"
	"spotlike/internal/tasks"
	"spotlike/internal/verify"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	client  services.Client
	authMgr *auth.Manager
	cache   *auth.TokenCache
	engine  *tasks.ActionEngine
	history *repositories.HistoryRepository
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Client  services.Client
	AuthMgr *auth.Manager
	Cache   *auth.TokenCache
	History *repositories.HistoryRepository
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	var engine *tasks.ActionEngine
	if opts.Client != nil && opts.AuthMgr != nil {
		engine = tasks.NewActionEngine(opts.Client, opts.AuthMgr, policyFromConfig(opts.Config), opts.History, opts.Logger)
	}

	return &Runner{
		config:  opts.Config,
		client:  opts.Client,
		authMgr: opts.AuthMgr,
		cache:   opts.Cache,
		engine:  engine,
		history: opts.History,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
	}
}

// SetLogger swaps the runner's logger, including the engine's.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.client != nil && r.authMgr != nil {
		r.engine = tasks.NewActionEngine(r.client, r.authMgr, policyFromConfig(r.config), r.history, logger)
	}
}

// policyFromConfig maps the verification settings onto a [verify.Policy],
// leaving zero fields to the policy defaults.
func policyFromConfig(config *shared.Config) verify.Policy {
	return verify.Policy{
		MaxAttempts: config.Verification.MaxAttempts,
		BaseDelay:   config.Verification.BaseDelay(),
		StepDelay:   config.Verification.StepDelay(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, trackCommand, historyCommand, runCommand, uiCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireClient guards commands that need configured Spotify credentials.
func (r *Runner) requireClient() error {
	if r.client == nil || r.authMgr == nil || r.engine == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'spotlike setup config' and fill in config.toml", shared.ErrMissingCredentials)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
