// Package export turns a grid's columns and records into a downloadable
// document.
//
// # Pipeline
//
// An export runs strictly in this order:
//
//  1. Validate: zero records or zero columns fail with NothingToExportError
//  2. Materialize: header row, one row per record, footer row (Materializer)
//  3. Sanitize: every cell is cleaned once (SanitizeTable)
//  4. Populate a single-sheet document from the table
//  5. Resolve the writer format (ResolveFormat)
//  6. Suppress buffered page output (SuppressOutput)
//  7. Serialize into a temporary file via the writer backend
//  8. Stream the file through a Responder
//
// Nothing is written to the Responder unless every earlier step succeeded,
// so a failed export never leaves a partial document in the response.
//
// # Usage
//
//	exporter := export.NewExporter(writer.DefaultRegistry(), nil)
//	result, err := exporter.Export(ctx, &export.Request{
//	    Columns:   columns,
//	    Records:   records,
//	    Sink:      page,
//	    Responder: export.NewHTTPResponder(w),
//	    Options:   export.Options{FileName: "users.xlsx"},
//	})
//	if err != nil {
//	    return err
//	}
//	if result.Sent {
//	    return nil // response is finalized, stop rendering
//	}
//
// # Triggering
//
// Triggered and TriggerFromRequest decide whether a request asks a given grid
// instance for an export. The request carries two query parameters:
// ParamFlag ("export-grid") and ParamContainer ("export-container").
package export
