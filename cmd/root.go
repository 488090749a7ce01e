package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/u-blox/arrayify/internal/config"
	"github.com/u-blox/arrayify/internal/ui"
	"github.com/u-blox/arrayify/pkg/carray"
	"github.com/u-blox/arrayify/pkg/log"
	"github.com/u-blox/arrayify/version"
)

// Conversion parameters set via flags. Anything left at its zero value
// falls back to arrayify.yaml and then to built-in defaults.
var (
	arrayName  string
	lineLength int
	outputFile string
	bare       bool
	configFile string
	verbose    bool
)

// rootCmd represents the base command. arrayify has a single primary
// operation, so conversion runs on the root command itself rather than a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "arrayify INPUT_FILE",
	Short: "Convert a text file into a C array declaration",
	Long: `arrayify converts a text file into a C source file declaring the file's
content as a const char array, escaped and wrapped into quoted string
literals, so that text can be compiled straight into images for targets
without a file system.`,
	Args:    cobra.ExactArgs(1),
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	rootCmd.Flags().StringVarP(&arrayName, "name", "n", "", "name of the array (default: input file name without path and extension)")
	rootCmd.Flags().IntVarP(&lineLength, "line-length", "l", 0, "output line length, including the newline (default 80)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: input file name with extension .array)")
	rootCmd.Flags().BoolVarP(&bare, "bare", "b", false, "omit the header and \"// End of file\" comments")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default arrayify.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "force debug logging")
}

// runConvert resolves the effective conversion parameters from flags,
// configuration and defaults, then encodes inputPath into the output file.
//
// Returns:
//   - error: An error if the parameters are unusable or a file cannot be
//     opened.
func runConvert(cmd *cobra.Command, inputPath string) error {
	cfgPath := configFile
	explicit := cfgPath != ""
	if !explicit {
		cfgPath = config.DefaultFile
	}

	cfg, err := config.Load(cfgPath, explicit)
	if err != nil {
		return err
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := log.Init(cfg.Logging.Path, level); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	// The input is opened before the array name is derived from it, so a
	// missing file reports as a missing file rather than as a bad name.
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open input file %s (%v)", inputPath, err)
	}
	defer in.Close()

	// Flags override the config file.
	name := arrayName
	if name == "" {
		name = stem(inputPath)
	}
	if !carray.IsValidName(name) {
		return fmt.Errorf("invalid array name %q (must be a C identifier)", name)
	}

	width := cfg.Defaults.LineLength
	if cmd.Flags().Changed("line-length") {
		width = lineLength
	}
	if min := carray.MinLineLength(name); width < min {
		ui.PrintWarning("Line length", fmt.Sprintf("using %d as %d is less than the minimum required to print something", min, width))
		width = min
	}

	useBare := cfg.Defaults.Bare
	if cmd.Flags().Changed("bare") {
		useBare = bare
	}

	// The default output name comes from the input file even when -n
	// renames the array.
	outPath := outputFile
	if outPath == "" {
		outPath = stem(inputPath) + "." + cfg.Defaults.Extension
	}

	slog.Debug("starting conversion",
		"input", inputPath,
		"output", outPath,
		"name", name,
		"line_length", width,
		"bare", useBare)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot open output file %s (%v)", outPath, err)
	}

	ui.PrintHeader(fmt.Sprintf("Arrayifying %q as %q:", inputPath, name))

	lines, err := carray.Encode(out, in, carray.Options{
		Name:        name,
		LineLength:  width,
		Bare:        useBare,
		SourceLabel: inputPath,
		ToolLabel:   stem(os.Args[0]),
	})
	if err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	detail := fmt.Sprintf("%s to %s", english.Plural(lines, "line", ""), outPath)
	if info, err := os.Stat(outPath); err == nil {
		detail += fmt.Sprintf(" (%s)", humanize.IBytes(uint64(info.Size())))
	}
	ui.PrintSuccess("Written", detail)
	slog.Info("conversion complete", "output", outPath, "lines", lines)

	return nil
}

// stem returns path's final component with everything from the first dot
// onwards removed: input file1.txt yields file1. Leading dots are skipped
// before looking for the extension, so .bashrc stems to bashrc. Both slash
// directions count as separators regardless of platform.
func stem(path string) string {
	base := strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimLeft(base, ".")
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}
