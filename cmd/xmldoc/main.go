package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/xmldoc/internal/config"
	"github.com/gubarz/xmldoc/internal/extractor"
	"github.com/gubarz/xmldoc/internal/render"
	"github.com/gubarz/xmldoc/internal/ui"
	"github.com/gubarz/xmldoc/internal/xmldoc"
)

var version = "0.1.0"

const usageLine = "Usage: xmldoc <source_file> [--remarks]"

// legacyRemarksArg is the single-dash spelling accepted by earlier releases
const legacyRemarksArg = "-remarks"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xmldoc <source_file>",
		Short: "Extract XML documentation comments from C# methods",
		Long: `Prints the /// documentation comment of every method declared in a
C# source file, either as the whole XML document or as the re-flowed
text of its <remarks> section.

Malformed comments are reported per method and do not stop the run.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExtract,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "xmldoc", version)
		},
	})

	flags := rootCmd.Flags()
	flags.BoolP("remarks", "r", false, "Print only the re-flowed <remarks> section")
	flags.StringP("format", "f", "", "Full document format: xml, json, yaml")
	flags.Int("indent", 0, "Indentation width for the full document")
	flags.BoolP("copy", "c", false, "Also copy the output to the clipboard")
	flags.BoolP("browse", "b", false, "Pick a method interactively")
	flags.BoolP("verbose", "v", false, "Log progress to stderr")

	for _, key := range []string{"remarks", "format", "indent", "copy"} {
		viper.BindPFlag(key, flags.Lookup(key))
	}

	return rootCmd
}

// normalizeArgs rewrites the legacy -remarks spelling, which pflag would
// otherwise read as a group of shorthand flags.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == legacyRemarksArg {
			a = "--remarks"
		}
		out[i] = a
	}
	return out
}

func newLogger(verbose bool, errOut io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(errOut)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, err := logrus.ParseLevel(config.C.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return nil
	}

	// config is read only once there is a file to work on
	if err := config.Init(); err != nil {
		return err
	}
	if err := config.Refresh(); err != nil {
		return err
	}
	cfg := config.C

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := newLogger(verbose, cmd.ErrOrStderr())
	if len(args) > 1 {
		log.Debugf("Ignoring extra arguments: %v", args[1:])
	}

	x := extractor.NewExtractor(extractor.Options{
		Normalize: xmldoc.Options{
			Marker:     cfg.Marker,
			RootTag:    cfg.RootTag,
			RemarksTag: cfg.RemarksTag,
		},
		RemarksOnly: cfg.Remarks,
	}, log)

	report, err := x.ExtractFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var clip render.Clipboard
	if cfg.Copy {
		clip = render.SystemClipboard()
	}
	sink := render.NewSink(cmd.OutOrStdout(), clip)

	var out io.Writer = cmd.OutOrStdout()
	if clip != nil {
		// plain text on the clipboard
		out = sink
	}

	w := render.NewWriter(out, render.Options{
		Format:      cfg.Format,
		Indent:      cfg.Indent,
		RemarksOnly: cfg.Remarks,
	})

	if browse, _ := cmd.Flags().GetBool("browse"); browse {
		err = ui.Run(report, w)
	} else {
		err = w.WriteReport(report)
	}
	if err != nil {
		return err
	}

	if err := sink.Flush(); err != nil {
		log.Warnf("Copy to clipboard failed: %v", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	rootCmd.Version = version
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
