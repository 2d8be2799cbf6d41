package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/ccj16/regdesk/internal/log"
)

// EnvPrefix namespaces environment overrides, e.g. REGDESK_API_BASE_URL.
const EnvPrefix = "REGDESK"

// LoadDotEnv loads KEY=VALUE pairs from files into the process environment
// without overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", path, err)
		}
		log.Debug(log.CatConfig, "loaded env file", "path", path)
	}
	return nil
}
