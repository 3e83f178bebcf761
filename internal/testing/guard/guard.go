// Package guard marks the process as a test run so binaries refuse to start
// real servers from within the test harness.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("DOCUVAULT_TEST_MODE") == "" {
			_ = os.Setenv("DOCUVAULT_TEST_MODE", "1")
		}
	})
}
