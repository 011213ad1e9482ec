// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the buffered slog handler used to
// assert on log output and excelize-backed workbook fixtures.
package shared
