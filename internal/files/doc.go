// Package files resolves command-line inputs into workbook paths.
//
// An input may name a workbook, a directory (its workbooks, sorted by name)
// or a glob pattern. Office lock files and non-spreadsheet files found in
// directories or globs are skipped.
//
// Example usage:
//
//	discovery := files.NewDiscovery(logger)
//	paths, err := discovery.Expand([]string{"reports/", "archive/q*.xlsx", "extra.xlsx"})
package files
