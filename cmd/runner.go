package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/singme/internal/metrics"
	"github.com/desertthunder/singme/internal/recommendations"
	"github.com/desertthunder/singme/internal/repositories"
	"github.com/desertthunder/singme/internal/shared"
	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	engine     recommendations.ScoringEngine
	metrics    *metrics.Metrics
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
//
// When Engine is set, commands use it instead of opening the configured database.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Engine     recommendations.ScoringEngine
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     opts.Engine,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, addCommand, upvoteCommand, downvoteCommand,
		listCommand, topCommand, randomCommand, showCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the configuration once per process: an injected config wins, then the --config file, then
// the embedded defaults. The logger level follows the loaded config.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	path := r.configPath
	if cmd != nil && (cmd.IsSet("config") || path == "") {
		path = cmd.String("config")
	}
	if path == "" {
		path = defaultConfigPath
	}

	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	level, err := shared.ParseLevel(config.Logging.Level)
	if err != nil {
		return nil, err
	}
	shared.SetLogLevel(r.logger, level)

	r.config = config
	r.configPath = path
	return config, nil
}

// openEngine returns the injected engine or builds one over the configured database.
func (r *Runner) openEngine(cmd *cli.Command) (recommendations.ScoringEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.Database.Path, err)
	}
	r.db = db
	r.metrics = metrics.New()

	r.engine = recommendations.NewEngine(repositories.NewRecommendationRepository(db), recommendations.EngineOpts{
		Random:   recommendations.NewRandomSource(config.Random.Seed),
		Logger:   r.logger,
		Recorder: r.metrics,
	})
	return r.engine, nil
}

// Close releases the database opened by [Runner.openEngine].
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
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

func (r *Runner) writePlainHeader(title string) error {
	for _, line := range []string{"═══════════════════════════════════════\n", title + "\n", "═══════════════════════════════════════\n"} {
		if err := r.writePlain("%s", line); err != nil {
			return err
		}
	}
	return nil
}
