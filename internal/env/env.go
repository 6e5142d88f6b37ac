package env

import (
	"os"

	"github.com/joho/godotenv"
)

// Load reads each dotenv file that exists, in order. Variables already present
// in the process environment are never overridden, and earlier files win over
// later ones.
func Load(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}
