package health

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Pinger is implemented by *store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck reports the database as unhealthy when it cannot be reached.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}

// TempDirCheck verifies that export temporary files can be created in dir.
// An empty dir means os.TempDir().
func TempDirCheck(dir string) CheckFunc {
	return func(ctx context.Context) error {
		if dir == "" {
			dir = os.TempDir()
		}
		f, err := os.CreateTemp(dir, ".gridexport-health-*")
		if err != nil {
			return err
		}
		name := f.Name()
		return errors.Join(f.Close(), os.Remove(name))
	}
}

// GridsCheck fails while count reports no registered grids.
func GridsCheck(count func() int) CheckFunc {
	return func(ctx context.Context) error {
		if n := count(); n <= 0 {
			return fmt.Errorf("no grids registered")
		}
		return nil
	}
}
