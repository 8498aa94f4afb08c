// Package table reads and writes the column tables that hold flux spectra.
//
// A Table is a list of named columns of equal length. Numeric columns keep
// their values as float64 (integer columns are tagged Int64 but stored the
// same way); string columns keep strings. Tables also carry ordered
// metadata, which the ECSV, Parquet and SQLite formats preserve.
//
// # Formats
//
// The format is chosen from the file extension after an optional
// compression suffix has been removed:
//
//   - .ecsv: Astropy ECSV 1.0 (read/write)
//   - .csv: comma separated with a header row (read/write)
//   - .parquet: one required leaf per column (read/write)
//   - .sqlite, .db: single-spectrum SQLite file (read/write)
//   - anything else: whitespace separated ASCII without header (read only)
//
// Compression suffixes .gz (parallel gzip) and .zst (zstd) are handled
// transparently on both read and write. The path "-" means stdin/stdout and
// always uses ECSV.
package table
