// Package health serves the liveness, readiness and version endpoints of
// gridexport.
//
// A Checker holds named CheckFuncs. Liveness only reports that the process is
// up; readiness runs every check concurrently with a per-check timeout and
// answers 503 when any of them fails. checks.go provides the checks the server
// registers: database reachability, a writable export temp directory and a
// non-empty grid registry.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("storage", health.PingCheck(st))
//	checker.RegisterCheck("tempdir", health.TempDirCheck(os.TempDir()))
//	checker.Mount(router, version.Info())
package health
