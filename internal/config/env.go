package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the dotenv file picked up next to the config file
const EnvFileName = ".env"

// LoadDotEnv loads ./.env and, when dir is set, dir/.env into the process
// environment. Variables already set are not overridden. It returns the
// files that were loaded.
func LoadDotEnv(dir string) []string {
	candidates := []string{EnvFileName}
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, EnvFileName))
	}

	var loaded []string
	seen := make(map[string]bool)
	for _, f := range candidates {
		abs, err := filepath.Abs(f)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			continue
		}
		loaded = append(loaded, abs)
	}
	return loaded
}
