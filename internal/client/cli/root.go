package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/dmitrijs2005/sharesaver/internal/client/config"
	"github.com/dmitrijs2005/sharesaver/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// annotationServer marks commands that talk to the management server.
const annotationServer = "server"

var serverCommand = map[string]string{annotationServer: "true"}

// Options are the process-level inputs of the CLI. Zero values mean the
// real process streams, filesystem and environment.
type Options struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Stdin     io.Reader
	Fs        afero.Fs
	LookupEnv func(string) (string, bool)
}

func (o *Options) setDefaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
}

// runner carries state between cobra's hooks and the command bodies.
type runner struct {
	opts       Options
	configFile string
	envFile    string
	logLevel   string

	app      *App
	closeLog func() error
}

// Execute runs the command line in args and tears the App down afterwards,
// also when the command failed.
func Execute(ctx context.Context, args []string, opts Options) error {
	opts.setDefaults()
	r := &runner{opts: opts}

	root := r.rootCommand()
	root.SetArgs(args)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, r.teardown(ctx))
}

func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sharesaver",
		Short:         "Save cloud share links into your drive through the management server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&r.configFile, "config", "", "JSON file with tunables")
	root.PersistentFlags().StringVar(&r.envFile, "env-file", ".env", "dotenv file (ignored when missing)")
	root.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		r.createCommand(),
		r.executeAllCommand(),
		r.tasksCommand(),
		r.foldersCommand(),
		r.historyCommand(),
		r.handleCommand(),
	)
	return root
}

func (r *runner) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(config.Sources{
		Fs:        r.opts.Fs,
		JSONFile:  r.configFile,
		EnvFile:   r.envFile,
		LookupEnv: r.opts.LookupEnv,
	})
	if err != nil {
		return err
	}
	if r.logLevel != "" {
		cfg.LogLevel = r.logLevel
	}

	if cmd.Annotations[annotationServer] != "" {
		if cfg.ServerURL == "" {
			return errors.New("SERVER_URL is not set")
		}
		if cfg.Password == "" && stdinIsTerminal() {
			if cfg.Password, err = GetPassword(r.opts.Stderr); err != nil {
				return err
			}
		}
	}

	log, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Output: r.opts.Stderr})
	if err != nil {
		return err
	}
	r.closeLog = closeLog

	r.app, err = NewApp(ctx, cfg, log, r.opts.Stdout, r.opts.Stdin)
	return err
}

func (r *runner) teardown(ctx context.Context) error {
	var errs []error
	if r.app != nil {
		errs = append(errs, r.app.Close(ctx))
	}
	if r.closeLog != nil {
		errs = append(errs, r.closeLog())
	}
	return errors.Join(errs...)
}
