package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"romselect/internal/archive"
	"romselect/internal/config"
	"romselect/internal/errors"
	"romselect/internal/log"
	"romselect/internal/menu"
	"romselect/internal/organize"

	"github.com/spf13/cobra"
)

// EnvDebug enables debug logging when set to 1
const EnvDebug = "ROMSELECT_DEBUG"

var version = "dev"

// NewRootCommand creates the romselect command
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "romselect <archive>",
		Short: "Pick a rom out of an archive and install it into the library",
		Long: `romselect lists the files in a rom archive, suggests the known-good
dump for your region and installs the one you pick: it is extracted,
packed into its own archive and copied into the platform directory for
its type.

Configuration is read from $ROMSELECT_CONFIG or
$HOME/.config/romselect/config.yaml.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode maps the result of Execute to the process exit status: 0 on
// success or quit, 1 on any error.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// Run lists archivePath, asks which entry to handle on in/out and installs
// it. Quitting from the menu is not an error. Once logging is configured,
// a failure is also recorded in the configured log before it is closed.
func Run(ctx context.Context, archivePath string, in io.Reader, out io.Writer) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configureLogging(cfg)
	defer func() {
		if err != nil {
			log.LogError(err, "romselect failed")
		}
		_ = log.Close()
	}()

	tool, err := archive.New(cfg.Archiver.Binary)
	if err != nil {
		return err
	}

	if _, err := os.Stat(archivePath); err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("archive not found", archivePath, errors.FileNotFound, err)
		}
		return errors.NewFileError("cannot access archive", archivePath, errors.FileAccessDenied, err)
	}

	entries, err := tool.List(ctx, archivePath)
	if err != nil {
		return err
	}
	log.LogWithFields(log.F("archive", archivePath), log.F("entries", len(entries))).Debug("Listed archive")

	m, err := menu.New(entries, menu.Options{
		GoodMarker: cfg.Markers.Good,
		Country:    cfg.Markers.Country,
		Exclude:    cfg.Menu.Exclude,
	})
	if err != nil {
		return err
	}

	entry, err := menu.NewResolver(m, in, out).Resolve()
	if errors.Is(err, menu.ErrQuit) {
		log.Debug("Quit without selecting")
		return nil
	}
	if err != nil {
		return err
	}

	installer := organize.CurrentInstallerFactory(tool, cfg)
	installer.SetOutput(out)
	result, err := installer.Install(ctx, archivePath, entry)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Installed %s\n", result.LibraryPath)
	return nil
}

func loadConfig() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, errors.NewConfigError("cannot locate configuration", config.EnvConfigPath, errors.InvalidConfig, err)
	}
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, errors.NewConfigError("cannot load configuration", path, errors.InvalidConfig, err)
	}
	return cfg, nil
}

func configureLogging(cfg *config.Config) {
	log.SetDebug(cfg.Log.Debug || os.Getenv(EnvDebug) == "1")

	var opts []log.Option
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File))
	}
	log.Configure(opts...)
}

// reportError prints err and, for archiver failures, everything the
// archiver wrote.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var toolErr *errors.ToolError
	if errors.As(err, &toolErr) {
		if output := toolErr.Output(); output != "" {
			fmt.Fprintln(w, output)
		}
	}
}
