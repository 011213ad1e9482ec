package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"auditintel/internal/config"
	"auditintel/internal/exporter"
	"auditintel/internal/files"
	"auditintel/internal/services"
	"auditintel/pkg/contracts"
	"auditintel/pkg/contracts/domain"
)

var errFilesFailed = errors.New("one or more workbooks failed")

// fileResult is the outcome for one input file
type fileResult[T any] struct {
	File   string `json:"file"`
	Result T      `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// forEachFile runs fn over paths with at most limit in flight. Results keep
// the order of paths; a failing file does not stop the others.
func forEachFile[T any](ctx context.Context, paths []string, limit int, fn func(context.Context, services.Source) (T, error)) ([]fileResult[T], error) {
	results := make([]fileResult[T], len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range paths {
		g.Go(func() error {
			results[i].File = file
			res, err := fn(ctx, services.FileSource(file))
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Error != "" {
			return results, errFilesFailed
		}
	}
	return results, nil
}

// emit writes one result as-is and several as a list
func emit[T any](c *cli, results []fileResult[T], text func(fileResult[T]) string) error {
	switch c.output {
	case outputCSV:
		return errors.New("csv output is only supported by analyze")
	case outputText:
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(c.out, "%s: error: %s\n", r.File, r.Error)
				continue
			}
			fmt.Fprint(c.out, text(r))
		}
		return nil
	}
	if len(results) == 1 && results[0].Error == "" {
		return writeStructured(c.out, c.output, results[0].Result)
	}
	return writeStructured(c.out, c.output, results)
}

func runFiles[T any](c *cli, cmd *cobra.Command, args []string, fn func(context.Context, services.Source) (T, error), text func(fileResult[T]) string) error {
	paths, err := c.inputs(args)
	if err != nil {
		return err
	}
	results, err := forEachFile(cmd.Context(), paths, c.concurrency, fn)
	if results == nil {
		return err
	}
	if emitErr := emit(c, results, text); emitErr != nil {
		return emitErr
	}
	return err
}

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		seed   uint64
		export string
	)
	cmd := &cobra.Command{
		Use:   "analyze PATH...",
		Short: "Analyze one or more workbooks",
		Long: `Runs every sheet of each workbook through format detection, the metric
analysis for its format and the narrative summary.

--output csv prints one summary row per sheet instead of the full report.
--export writes the same summary to a .csv or .xlsx file.

A PATH may be a workbook, a directory of workbooks or a glob pattern.

Example:
  auditctl analyze q1.xlsx q2.xlsx --output text --export summary.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				c.cfg.Analysis.NarrativeSeed = seed
			}
			paths, err := c.inputs(args)
			if err != nil {
				return err
			}
			results, err := forEachFile(cmd.Context(), paths, c.concurrency, c.service().Analyze)
			if results == nil {
				return err
			}

			if export != "" {
				if xerr := exporter.ExportFile(export, reportEntries(results)); xerr != nil {
					return xerr
				}
				c.logger.Info("summary exported", "path", export)
			}

			var emitErr error
			if c.output == outputCSV {
				emitErr = exporter.WriteCSV(c.out, exporter.WriteOptions{
					Headers: exporter.SummaryHeaders,
					Records: exporter.SummaryRecords(reportEntries(results)),
				})
			} else {
				emitErr = emit(c, results, renderReport)
			}
			if emitErr != nil {
				return emitErr
			}
			return err
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "narrative phrasing seed; 0 keeps the first phrasing")
	cmd.Flags().StringVar(&export, "export", "", "write a per-sheet summary to a .csv or .xlsx file")
	return cmd
}

// inputs expands directories and glob patterns into workbook paths
func (c *cli) inputs(args []string) ([]string, error) {
	return files.NewDiscovery(c.logger).Expand(args)
}

// reportEntries keeps the files that were analyzed successfully
func reportEntries(results []fileResult[*domain.Report]) []exporter.ReportEntry {
	entries := make([]exporter.ReportEntry, 0, len(results))
	for _, r := range results {
		if r.Error == "" {
			entries = append(entries, exporter.ReportEntry{File: r.File, Report: r.Result})
		}
	}
	return entries
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check workbook columns, data quality and value ranges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(c, cmd, args, c.service().Validate, renderValidation)
		},
	}
}

func (c *cli) detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect PATH...",
		Short: "Report the detected format of every sheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(c, cmd, args, c.service().Detect, renderDetect)
		},
	}
}

func (c *cli) previewCmd() *cobra.Command {
	var (
		rows  int
		sheet string
	)
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print the first rows of each sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 1 || rows > config.MaxPreviewRows {
				return fmt.Errorf("--rows must be between 1 and %d, got %d", config.MaxPreviewRows, rows)
			}
			svc := c.service()
			preview := func(ctx context.Context, src services.Source) (*services.PreviewResult, error) {
				return svc.Preview(ctx, src, rows, sheet)
			}
			return runFiles(c, cmd, args, preview, renderPreview)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", config.DefaultPreviewRows, "rows per sheet")
	cmd.Flags().StringVar(&sheet, "sheet", "", "preview only this sheet")
	return cmd
}

func (c *cli) columnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List required, recommended and optional columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := c.service().RequiredColumns()
			if c.output == outputCSV {
				return errors.New("csv output is only supported by analyze")
			}
			if c.output == outputText {
				fmt.Fprint(c.out, renderColumns(catalog))
				return nil
			}
			return writeStructured(c.out, c.output, catalog)
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.output == outputText {
				fmt.Fprintln(c.out, contracts.GetFullVersionString())
				return nil
			}
			return writeStructured(c.out, c.output, contracts.GetVersionInfo())
		},
	}
}
