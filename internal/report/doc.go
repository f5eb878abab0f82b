// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid pie chart
//
// Writers implement the Writer interface, so they can be used
// interchangeably and composed with MultiWriter.
//
// XLSXExporter is separate: it writes the aggregate tables to a spreadsheet
// file rather than rendering a report to a stream.
package report
