// Package logtail reads the end of the Frame log file and turns its zap JSON
// lines into one-line text for the log view.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries, so memory stays O(maxLines)
// regardless of file size. Each line overwrites the oldest slot. At end of
// file the buffer is returned oldest line first, or just the lines seen when
// the file was shorter than maxLines.
//
// A non-positive maxLines reads the whole file.
//
// # Formatting
//
// Parse decodes the fields zap writes (ts, level, msg, plus structured
// fields) and drops caller and stacktrace. Format renders
//
//	10:11:12 WARN  save order failed error="api ... 500" source_id=a
//
// with keys sorted. Lines that are not JSON, such as a panic trace, pass
// through unchanged. Coloring is left to the UI theme.
//
// # Error Handling
//
// Read returns nil, nil for non-existent files. Other errors are returned
// wrapped. Parse and Format never fail.
package logtail
