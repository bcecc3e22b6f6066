// Command scribgen is the command-line front end of the generation engine:
// mail-merge-like generation of Scribus (SLA), JPG, or PDF documents from
// external (csv/json/yaml) data.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codfish-zz/ScribusGenerator/pkg/generator"
	"github.com/codfish-zz/ScribusGenerator/pkg/render"
	"github.com/codfish-zz/ScribusGenerator/pkg/settings"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliFlags struct {
	dataFile     string
	csvDelimiter string
	csvEncoding  string
	outName      string
	outDir       string
	firstRow     string
	lastRow      string
	imgQuality   int
	load         bool
	merge        bool
	save         bool
	yes          bool
	verbose      bool
	formatAll    bool
	formatJpg    bool
	formatPdf    bool
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "scribgen [flags] template.sla...",
		Short: "Generate Scribus (SLA), JPG or PDF documents automatically from external (csv) data",
		Long: `Generate Scribus (SLA) or PDF documents automatically from external (csv) data.
Mail-Merge-like extension to Scribus.

For each template, data is read from the configured data file (default: the
template path with a .csv extension; if that file is not found, generation
from this particular template is skipped). Every data row produces one output
document, or all rows merge into a single document with --merge.`,
		Example: `  scribgen my-template.sla
  scribgen --outDir /tmp/out example/Business_Card.sla
  scribgen --outName "card-%VAR_COUNT%-%VAR_email%" */*.sla
  scribgen --merge -c translations.csv -n doc lang/*.sla
  scribgen sample.sla --dataFile data.csv --outName result --formatPdf`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.dataFile, "dataFile", "c", "", `data file (csv/json/yaml) substituted in each template; default is the template path with a "csv" extension`)
	f.StringVarP(&flags.csvDelimiter, "csvDelimiter", "d", ",", "CSV field delimiter character")
	f.StringVarP(&flags.csvEncoding, "csvEncoding", "e", "utf-8", "encoding of the CSV file")
	f.BoolVarP(&flags.load, "load", "l", false, "load generator settings from (each) template, overriding all options")
	f.BoolVarP(&flags.merge, "merge", "m", false, "generate a single output file combining all data rows, for each template")
	f.BoolVar(&flags.merge, "single", false, "alias for --merge")
	f.StringVarP(&flags.outName, "outName", "n", "", "name of the generated files, without extension; %VAR_...% placeholders are allowed, %VAR_COUNT% is the data entry position")
	f.StringVarP(&flags.outDir, "outDir", "o", "", "directory for generated files; default is the template's directory")
	f.IntVarP(&flags.imgQuality, "imgQuality", "q", 100, "quality of the generated image file, 1 to 100")
	f.BoolVarP(&flags.save, "save", "s", false, "save current generator settings in (each) template")
	f.StringVar(&flags.firstRow, "firstrow", "", "first data row to merge, not counting the header")
	f.StringVar(&flags.lastRow, "lastrow", "", "last data row to merge, not counting the header")
	f.BoolVar(&flags.formatAll, "formatAll", false, "generate all output types (SLA, JPG and PDF)")
	f.BoolVar(&flags.formatJpg, "formatJpg", false, "generate output in JPG format")
	f.BoolVar(&flags.formatPdf, "formatPdf", false, "generate output in PDF format")
	f.BoolVarP(&flags.yes, "yes", "y", false, "do not ask before overwriting settings already saved in a template")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose (debug) logging")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags cliFlags) error {
	logger, err := buildLogger(flags.verbose)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	s := baseSettings(flags)
	log.Debugf("starting generation for %d template(s)", len(args))

	requests := make([]generator.Request, 0, len(args))
	for _, template := range args {
		rs := s

		// Several merged templates would otherwise collide on one output
		// name; qualify it per template.
		if rs.SingleOutput && len(args) > 1 {
			base := strings.TrimSuffix(filepath.Base(template), filepath.Ext(template))
			rs.OutputName = strings.TrimSuffix(rs.OutputName+"__"+base, "__")
		}

		if rs.SaveSettings && !flags.yes {
			overwrite, err := confirmOverwrite(template)
			if err != nil {
				return err
			}
			if !overwrite {
				log.Infof("not overwriting settings saved in %s", filepath.Base(template))
				rs.SaveSettings = false
			}
		}

		requests = append(requests, generator.Request{
			TemplatePath: template,
			Settings:     rs,
			LoadSettings: flags.load,
		})
	}

	gen := generator.New(generator.WithLogger(log))
	results := gen.RunAll(cmd.Context(), requests)

	failed := 0
	for _, res := range results {
		switch res.Outcome {
		case generator.OutcomeDone:
			log.Infof("generated %d file(s) for %s", len(res.Written), filepath.Base(res.Template))
		case generator.OutcomeSkipped:
			// Already logged with the skip reason.
		case generator.OutcomeFailed:
			failed++
			log.Errorf("generation failed for %s: %v", filepath.Base(res.Template), res.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d template(s) failed", failed, len(results))
	}
	return nil
}

func baseSettings(flags cliFlags) settings.Settings {
	s := settings.Default()
	s.DataFile = flags.dataFile
	s.CSVDelimiter = flags.csvDelimiter
	s.CSVEncoding = flags.csvEncoding
	s.OutputDir = flags.outDir
	s.OutputName = flags.outName
	s.ImageQuality = flags.imgQuality
	s.SingleOutput = flags.merge
	s.FirstRow = flags.firstRow
	s.LastRow = flags.lastRow
	s.SaveSettings = flags.save

	switch {
	case flags.formatJpg:
		s.OutputFormat = render.FormatJPG
	case flags.formatPdf:
		s.OutputFormat = render.FormatPDF
	case flags.formatAll:
		s.OutputFormat = render.FormatAll
	}
	return s
}

// confirmOverwrite asks before replacing a settings region that already
// exists in the template.
func confirmOverwrite(template string) (bool, error) {
	raw, err := os.ReadFile(template)
	if err != nil {
		// Let the orchestrator report the unreadable template.
		return true, nil
	}
	if !settings.HasRegion(raw) {
		return true, nil
	}

	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Template %s already contains generator settings. Overwrite them?", filepath.Base(template)),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, fmt.Errorf("confirm settings overwrite: %w", err)
	}
	return overwrite, nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stdout"}
		return cfg.Build()
	}
	return zap.NewProduction()
}
