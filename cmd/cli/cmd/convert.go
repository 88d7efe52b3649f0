package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bloatmap/internal/attribution"
	"github.com/bloatmap/internal/formatter"
	"github.com/bloatmap/internal/metafile"
	apperrors "github.com/bloatmap/pkg/errors"
	"github.com/bloatmap/pkg/writer"
)

var (
	// Convert command flags
	inputFile  string
	outputFile string
	outputName string
	lockPath   string
	deep       int
	noSections bool
	maxWorkers int
	gzipOutput bool
	prettyJSON bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a size report into a metafile",
	Long: `Convert a per-symbol CSV size report into a bundler-analyzer metafile.

The report needs the columns sections, symbols, vmsize, and filesize.
Every symbol is classified into an owning package; the package's
dependency chain from the lock document becomes its path prefix, so the
resulting tree mirrors the dependency graph of the binary. Symbols that
cannot be attributed group under a generic sections branch.`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input CSV size report ('-' or empty reads stdin)")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output metafile path (empty writes stdout)")
	convertCmd.Flags().StringVar(&outputName, "name", "", "Name of the output entry in the metafile")
	convertCmd.Flags().StringVar(&lockPath, "lock", "", "Dependency lock document path")
	convertCmd.Flags().IntVar(&deep, "deep", -1, "Maximum emission depth (0 = unbounded)")
	convertCmd.Flags().BoolVar(&noSections, "no-sections", false, "Exclude unclassified branches from the report")
	convertCmd.Flags().IntVar(&maxWorkers, "workers", 0, "Classification worker count (0 = auto)")
	convertCmd.Flags().BoolVar(&gzipOutput, "gzip", false, "Gzip the metafile output")
	convertCmd.Flags().BoolVar(&prettyJSON, "pretty", false, "Pretty-print the metafile JSON")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	opts := resolveOptions()

	reader, source, cleanup, err := openInput()
	if err != nil {
		return err
	}
	defer cleanup()

	log.Debug("reading size report from %s", source)
	startTime := time.Now()

	pipeline := attribution.New(opts, log)
	result, err := pipeline.Run(context.Background(), reader, source)
	if err != nil {
		return err
	}
	log.Debug("conversion took %s", time.Since(startTime))

	if err := writeMetafile(result.Metafile); err != nil {
		return err
	}

	formatter.NewSummaryFormatter().Format(result, log)
	return nil
}

// resolveOptions merges config-file defaults with explicit flags. The
// pipeline receives only the resolved values.
func resolveOptions() attribution.Options {
	opts := attribution.Options{
		OutputName: cfg.Convert.OutputName,
		LockPath:   cfg.Convert.LockPath,
		MaxDepth:   cfg.Convert.Deep,
		NoSections: cfg.Convert.NoSections || noSections,
		MaxWorkers: cfg.Convert.MaxWorkers,
	}
	if outputName != "" {
		opts.OutputName = outputName
	}
	if lockPath != "" {
		opts.LockPath = lockPath
	}
	if deep >= 0 {
		opts.MaxDepth = deep
	}
	if maxWorkers > 0 {
		opts.MaxWorkers = maxWorkers
	}
	return opts
}

func openInput() (io.Reader, string, func(), error) {
	if inputFile == "" || inputFile == "-" {
		return os.Stdin, "standard input", func() {}, nil
	}
	file, err := os.Open(inputFile)
	if err != nil {
		return nil, "", nil, apperrors.Wrap(apperrors.CodeInvalidInput,
			"failed to open input file "+inputFile, err)
	}
	return file, inputFile, func() { file.Close() }, nil
}

// writeMetafile serializes the report, surfaces the downstream scale
// warning, and writes to the chosen destination.
func writeMetafile(mf *metafile.Metafile) error {
	log := GetLogger()

	var buf bytes.Buffer
	jsonWriter := writer.NewJSONWriter[*metafile.Metafile]()
	if prettyJSON {
		jsonWriter = writer.NewPrettyJSONWriter[*metafile.Metafile]()
	}
	if err := jsonWriter.Write(mf, &buf); err != nil {
		return apperrors.Wrap(apperrors.CodeSerializeError,
			"failed to serialize metafile", err)
	}

	if buf.Len() > metafile.MaxStringBytes {
		log.Warn("metafile is %d bytes, larger than the %d-byte limit of downstream analyzers; consider --deep or --no-sections",
			buf.Len(), metafile.MaxStringBytes)
	}

	dest := os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeWriteError,
				"failed to create output file "+outputFile, err)
		}
		defer file.Close()
		dest = file
	}

	if gzipOutput {
		gz := writer.NewGzipWriter[*metafile.Metafile]()
		if err := gz.Write(mf, dest); err != nil {
			return apperrors.Wrap(apperrors.CodeWriteError, "failed to write metafile", err)
		}
		return nil
	}

	if _, err := io.Copy(dest, &buf); err != nil {
		return apperrors.Wrap(apperrors.CodeWriteError, "failed to write metafile", err)
	}
	if outputFile != "" {
		log.Info("metafile written to %s", outputFile)
	}
	return nil
}
