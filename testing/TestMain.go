// Package testing puts binaries into test mode. Blank-import it from tests
// that construct mains or config.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

// testEnv never points at real backing services.
var testEnv = map[string]string{
	"SUKANFOOD_TEST_MODE": "1",
	"REDIS_ADDR":          "127.0.0.1:0",
	"CATALOG_SOURCE":      "memory",
	"LOG_FORMAT":          "json",
}

func ensureTestMode() {
	once.Do(func() {
		for key, value := range testEnv {
			if key == "SUKANFOOD_TEST_MODE" || os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
