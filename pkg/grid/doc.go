// Package grid renders record sets as HTML tables and switches them to the
// export pipeline when a request carries the export trigger.
//
// A Definition describes a grid: its identifier, columns, export columns and
// export settings. Definitions are immutable and shared; a View is built per
// request from a Definition, a DataProvider and the request URL. View.Run
// either writes the page through the layout tokens {summary}, {items},
// {export} and {pager}, or hands the unpaginated records to an
// export.Exporter.
package grid
