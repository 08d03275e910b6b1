package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1 // a path could not be listed
	exitOptions = 3 // bad flags or configuration
)

// version is the application version, set via ldflags.
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lens [PATHS...]",
	Short: "lens lists the contents of directories.",
	Long: `lens lists files and directories in a grid, as a table, one per line,
or as a tree. Paths are resolved concurrently and directories can be
expanded recursively down to a chosen depth.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(viper.GetViper(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/lens/config.toml)")
	// -h belongs to --header, so help gets no shorthand.
	flags.Bool("help", false, "help for lens")

	// Views
	flags.BoolP("oneline", "1", false, "Display one entry per line")
	viper.BindPFlag(keyOneline, flags.Lookup("oneline"))
	flags.BoolP("long", "l", false, "Display extended details and attributes")
	viper.BindPFlag(keyLong, flags.Lookup("long"))
	flags.BoolP("grid", "G", false, "Display entries as a grid even when not on a terminal")
	viper.BindPFlag(keyGrid, flags.Lookup("grid"))
	flags.String("color", "auto", "When to use terminal colours: auto, always or never")
	viper.BindPFlag(keyColor, flags.Lookup("color"))

	// Directories
	flags.BoolP("recurse", "R", false, "Recurse into directories")
	viper.BindPFlag(keyRecurse, flags.Lookup("recurse"))
	flags.BoolP("tree", "T", false, "Recurse into directories as a tree")
	viper.BindPFlag(keyTree, flags.Lookup("tree"))
	flags.IntP("level", "L", 0, "Limit the depth of recursion (0 for no limit)")
	viper.BindPFlag(keyLevel, flags.Lookup("level"))
	flags.BoolP("list-dirs", "d", false, "List directories as files, not their contents")
	viper.BindPFlag(keyListDirs, flags.Lookup("list-dirs"))

	// Filtering and sorting
	flags.BoolP("all", "a", false, "Show hidden and dot files")
	viper.BindPFlag(keyAll, flags.Lookup("all"))
	flags.StringP("sort", "s", "name", "Sort field: name, Name, size, extension, modified, type or none")
	viper.BindPFlag(keySort, flags.Lookup("sort"))
	flags.BoolP("reverse", "r", false, "Reverse the sort order")
	viper.BindPFlag(keyReverse, flags.Lookup("reverse"))
	flags.Bool("group-directories-first", false, "List directories before other files")
	viper.BindPFlag(keyDirsFirst, flags.Lookup("group-directories-first"))
	flags.StringP("ignore-glob", "I", "", "Glob patterns of files to ignore, separated by '|'")
	viper.BindPFlag(keyIgnoreGlob, flags.Lookup("ignore-glob"))
	flags.Bool("git-ignore", false, "Ignore files mentioned in .gitignore")
	viper.BindPFlag(keyGitIgnore, flags.Lookup("git-ignore"))

	// Long view
	flags.BoolP("binary", "b", false, "List file sizes with binary prefixes")
	viper.BindPFlag(keyBinary, flags.Lookup("binary"))
	flags.BoolP("bytes", "B", false, "List file sizes in bytes, without prefixes")
	viper.BindPFlag(keyBytes, flags.Lookup("bytes"))
	flags.BoolP("header", "h", false, "Add a header row to each column")
	viper.BindPFlag(keyHeader, flags.Lookup("header"))
	flags.Bool("git", false, "List each file's git status, if tracked")
	viper.BindPFlag(keyGit, flags.Lookup("git"))

	// Processing and output
	flags.IntP("threads", "t", 0, "Maximum number of concurrent path lookups (0 for auto)")
	viper.BindPFlag(keyThreads, flags.Lookup("threads"))
	flags.BoolP("clipboard", "c", false, "Copy the listing to the clipboard")
	viper.BindPFlag(keyClipboard, flags.Lookup("clipboard"))
	flags.String("pdf", "", "Save the listing as PDF")
	viper.BindPFlag(keyPDF, flags.Lookup("pdf"))
	flags.Bool("interactive", false, "Pick the paths to list with a fuzzy finder")
	viper.BindPFlag(keyInteractive, flags.Lookup("interactive"))
	flags.String("log-level", "warn", "Diagnostic log level: trace, debug, info, warn or error")
	viper.BindPFlag(keyLogLevel, flags.Lookup("log-level"))

	setDefaults(viper.GetViper())

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &OptionsError{Key: "flags", Reason: err.Error()}
	})
}

// run performs one listing with the configuration in v.
func run(v *viper.Viper, args []string, stdout, stderr io.Writer) error {
	used, err := initConfig(v, cfgFile)
	if err != nil {
		return &OptionsError{Key: "config", Reason: err.Error()}
	}
	opts, err := optionsFromViper(v)
	if err != nil {
		return err
	}

	log := NewConsoleLogger(stderr, opts.LogLevel)
	if used != "" {
		log.Debugf("using config file %s", used)
	}

	fsys := osFS{}

	targets := args
	if opts.Interactive {
		targets, err = runInteractiveFinder(fsys, os.DirFS("."), opts.Filter.ShowHidden)
		if errors.Is(err, errAborted) {
			log.Infof("interactive selection aborted")
			return nil
		}
		if err != nil {
			return err
		}
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}

	types, err := loadFileTypes(userFileTypesPath())
	if err != nil {
		log.Warnf("%v; using built-in file types", err)
		if types, err = loadFileTypes(""); err != nil {
			return err
		}
	}

	sink := newOutputSink(opts, stdout, log)
	env := viewEnv{
		colors: newColorScheme(types, !sink.buffered() && colorEnabled(opts.Color, stdout)),
		width:  defaultWidth,
		fsys:   fsys,
		log:    log,
	}
	if !sink.buffered() {
		env.terminal = writerIsTerminal(stdout)
		env.width = terminalWidth(stdout)
	}

	lister := newLister(fsys, opts, newView(opts, env), sink, stderr, log)
	listErr := lister.Run(targets)
	if err := sink.Close(); err != nil {
		if listErr == nil {
			listErr = err
		} else {
			log.Errorf("%v", err)
		}
	}
	return listErr
}

// exitCode maps the error returned by the command to a process status.
// Errors already shown to the user (path failures) are not printed again.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}

	var optsErr *OptionsError
	var readErr *DirReadError
	switch {
	case errors.Is(err, errInaccessible), errors.As(err, &readErr):
		return exitFailure
	case errors.As(err, &optsErr):
		fmt.Fprintf(stderr, "lens: %v\n", err)
		return exitOptions
	}

	fmt.Fprintf(stderr, "lens: %v\n", err)
	return exitFailure
}

func main() {
	os.Exit(exitCode(rootCmd.Execute(), os.Stderr))
}
