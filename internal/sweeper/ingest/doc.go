// Package ingest turns uploaded bytes into a table.Table.
//
// The format is derived from the file extension (.csv, .xlsx, .pdf, any
// case). Every failure is reported as a *Failure carrying one of three
// reason codes; a failure is final for that file and no partial table is
// returned.
//
// PDF tables are read page by page with at most one table per page. The
// row sets of all pages are concatenated and the very first row becomes the
// header, so a second page with its own header contributes that header as a
// data row.
package ingest
