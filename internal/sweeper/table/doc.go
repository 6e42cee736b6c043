// Package table holds the normalized in-memory table produced by ingest.
//
// A Table is an ordered list of uniquely named columns of equal length. Each
// column has a type fixed when the table is built (number or text) and each
// cell is a number, a text or missing. Tables are mutated in place by the
// cleaning operations (DropDuplicates, FillMissingWithMean); projections and
// previews return new tables.
package table
