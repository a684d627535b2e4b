// Package exporter writes analysis output to files and HTTP responses.
//
// CSVWriter is the core CSV writer with UTF-8 BOM for Excel compatibility
// and a streaming variant for large work order collections.
//
// WorkOrderExporter renders the filtered work order population and the KPI
// summary to CSV or JSON, either to disk under the configured export
// directory or directly to an io.Writer.
package exporter
