// Gridexport serves configurable data grids over HTTP and exports them as
// spreadsheet, CSV, HTML or PDF documents.
//
// Usage:
//
//	# Start the server
//	gridexport serve --config configs/gridexport.yaml
//
//	# Create the demo users table
//	gridexport seed --rows 200
//
//	# Export a grid without the server
//	gridexport export users --format Xlsx --output users.xlsx
//
//	# Check a configuration file
//	gridexport validate --config configs/gridexport.yaml
package main

func main() {
	Execute()
}
