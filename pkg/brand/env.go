package brand

import (
	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

// 📥 LoadEnvFile reads dotenv files into a map without touching the process
// environment. Later files override earlier ones.
func LoadEnvFile(paths ...string) (map[string]string, error) {
	merged := map[string]string{}
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, errors.Errorf("reading env file %s: %w", path, err)
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	return merged, nil
}

// MapLookup looks variables up in m.
func MapLookup(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// 🔗 ChainLookup tries each lookup in order and returns the first non-empty
// value.
func ChainLookup(lookups ...Lookup) Lookup {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}
