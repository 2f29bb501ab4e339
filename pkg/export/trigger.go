package export

import (
	"net/http"
	"strconv"
)

const (
	// ParamFlag is the query parameter that requests an export.
	ParamFlag = "export-grid"

	// ParamContainer is the query parameter naming the grid instance the
	// export is meant for.
	ParamContainer = "export-container"
)

// Triggered reports whether an export is active for the grid instance id:
// exporting must be enabled, flag must be truthy, and container must equal id.
func Triggered(enabled bool, flag, container, id string) bool {
	return enabled && truthy(flag) && container == id
}

// TriggerFromRequest evaluates Triggered with the request's query parameters.
func TriggerFromRequest(r *http.Request, enabled bool, id string) bool {
	if r == nil {
		return false
	}
	q := r.URL.Query()
	return Triggered(enabled, q.Get(ParamFlag), q.Get(ParamContainer), id)
}

// truthy treats "", "0" and anything strconv.ParseBool reads as false as
// false; every other value is true.
func truthy(v string) bool {
	if v == "" || v == "0" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}
