// Package cli implements the shellder command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/container"
	"github.com/aegis-aio/shellder/internal/docker"
	"github.com/aegis-aio/shellder/internal/dockercli"
	"github.com/aegis-aio/shellder/internal/inspector"
	"github.com/aegis-aio/shellder/internal/logs"
	"github.com/aegis-aio/shellder/internal/models"
	"github.com/aegis-aio/shellder/pkg/config"
	"github.com/aegis-aio/shellder/pkg/logger"
)

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	cfg    *config.Config
	output string
	log    *logger.Logger

	// windowSet records an explicit --window, which beats the rules file.
	windowSet bool

	// runtime is injected by tests; otherwise it is built from cfg.
	runtime container.Runtime
	closer  io.Closer
}

// Option configures the root command.
type Option func(*app)

// WithRuntime makes every command use rt instead of connecting to Docker.
func WithRuntime(rt container.Runtime) Option {
	return func(a *app) {
		a.runtime = rt
	}
}

// WithConfig replaces the environment-derived configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *app) {
		a.cfg = cfg
	}
}

// NewRootCommand builds the shellder command tree. Flag defaults come from
// the environment so that flags override SHELLDER_* variables.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{output: outputText}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfg == nil {
		a.cfg = config.LoadWithDefaults()
	}

	root := &cobra.Command{
		Use:   "shellder",
		Short: "shellder - log classifier for a Docker Compose stack",
		Long: `shellder reads the logs of a running compose service once, counts lines
per category, numbers the error lines for browsing and jumps to the
surrounding context of any of them. Known benign messages are filtered
out, and errors logged right after a container start are tagged as startup
noise.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	cfg := a.cfg
	flags := root.PersistentFlags()
	flags.StringVarP(&a.output, "output", "o", outputText, "output format: text, json")
	flags.StringVar(&cfg.Runtime.Backend, "runtime", cfg.Runtime.Backend, "container runtime backend: api, cli")
	flags.StringVar(&cfg.Runtime.DockerHost, "docker-host", cfg.Runtime.DockerHost, "Docker daemon address (api backend)")
	flags.StringVar(&cfg.Runtime.DockerBinary, "docker-bin", cfg.Runtime.DockerBinary, "docker binary (cli backend)")
	flags.StringVar(&cfg.Runtime.ComposeProject, "project", cfg.Runtime.ComposeProject, "compose project for status")
	flags.StringVar(&cfg.Classifier.RulesFile, "rules", cfg.Classifier.RulesFile, "YAML rules file")
	flags.DurationVar(&cfg.Classifier.StartupWindow, "window", cfg.Classifier.StartupWindow, "startup window after container start")
	flags.StringVar(&cfg.Classifier.Timezone, "tz", cfg.Classifier.Timezone, "time zone of log timestamps")
	flags.IntVar(&cfg.Classifier.LogTail, "tail", cfg.Classifier.LogTail, "read only the last N log lines (0 reads all)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(
		newCountsCommand(a),
		newErrorsCommand(a),
		newContextCommand(a),
		newSearchCommand(a),
		newBrowseCommand(a),
		newStatusCommand(a),
		newExportCommand(a),
		newRotateCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.output != outputText && a.output != outputJSON {
		return &models.ValidationError{Field: "output", Message: fmt.Sprintf("unsupported output format %q (want text or json)", a.output)}
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.windowSet = cmd.Flags().Changed("window")
	level, err := a.cfg.Level()
	if err != nil {
		return err
	}
	a.log = logger.New(cmd.ErrOrStderr(), level, cmd.Name() == "serve")
	slog.SetDefault(a.log.Logger)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func (a *app) logger() *slog.Logger {
	if a.log == nil {
		return slog.Default()
	}
	return a.log.Logger
}

// containerRuntime returns the injected runtime or connects to the
// configured backend.
func (a *app) containerRuntime() (container.Runtime, error) {
	if a.runtime != nil {
		return a.runtime, nil
	}

	log := a.log.WithComponent("runtime").Logger
	switch a.cfg.Runtime.Backend {
	case config.RuntimeCLI:
		a.runtime = dockercli.NewClient(a.cfg.Runtime.DockerBinary, log)
	default:
		client, err := docker.NewClient(a.cfg.Runtime.DockerHost, log)
		if err != nil {
			return nil, err
		}
		a.runtime = client
		a.closer = client
	}
	return a.runtime, nil
}

// classifier builds the classifier from the defaults, the configured
// window and the rules file, in that order. An explicit --window flag is
// applied last.
func (a *app) classifier() (*classifier.Classifier, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []classifier.Option{
		classifier.WithTimestampParser(classifier.NewTimestampParser(loc)),
		classifier.WithStartupWindow(a.cfg.Classifier.StartupWindow),
	}
	if path := a.cfg.Classifier.RulesFile; path != "" {
		rules, err := classifier.LoadRules(path)
		if err != nil {
			return nil, err
		}
		ruleOpts, err := rules.Options(loc)
		if err != nil {
			return nil, fmt.Errorf("compiling rules from %s: %w", path, err)
		}
		opts = append(opts, ruleOpts...)
		if a.windowSet {
			opts = append(opts, classifier.WithStartupWindow(a.cfg.Classifier.StartupWindow))
		}
	}
	return classifier.New(opts...), nil
}

func (a *app) inspector(opts ...inspector.Option) (*inspector.Inspector, error) {
	rt, err := a.containerRuntime()
	if err != nil {
		return nil, err
	}
	c, err := a.classifier()
	if err != nil {
		return nil, err
	}
	opts = append([]inspector.Option{
		inspector.WithProject(a.cfg.Runtime.ComposeProject),
		inspector.WithTail(a.cfg.Classifier.LogTail),
	}, opts...)
	return inspector.New(rt, c, a.logger(), opts...), nil
}

func (a *app) json() bool {
	return a.output == outputJSON
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// notApplicable reports a snapshot that could not be taken. It is never
// printed as a zero count.
func notApplicable(w io.Writer, service string, state models.ContainerState) {
	fmt.Fprintf(w, "%s: not applicable: container %s\n", service, state)
}

type unavailableResult struct {
	Service   string                `json:"service"`
	State     models.ContainerState `json:"state"`
	Available bool                  `json:"available"`
}

func (a *app) reportUnavailable(w io.Writer, snap *logs.Snapshot) error {
	if a.json() {
		return writeJSON(w, unavailableResult{Service: snap.Service, State: snap.Container.State})
	}
	notApplicable(w, snap.Service, snap.Container.State)
	return nil
}
