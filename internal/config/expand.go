package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// envRef matches ${NAME} references.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// Expand replaces ${NAME} references with environment variable values.
// Unset variables expand to the empty string. A bare $NAME is left alone so
// URLs with literal dollar signs survive.
func Expand(s string) string {
	if s == "" || !strings.Contains(s, "${") {
		return s
	}
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRef.FindStringSubmatch(ref)[1]
		return os.Getenv(name)
	})
}

// ExpandSource expands environment references in the fields that commonly
// carry secrets or per-environment hosts.
func ExpandSource(src SourceConfig) SourceConfig {
	src.URL = Expand(src.URL)
	src.Token = Expand(src.Token)

	if len(src.Headers) > 0 {
		headers := make(map[string]string, len(src.Headers))
		for k, v := range src.Headers {
			headers[k] = Expand(v)
		}
		src.Headers = headers
	}
	return src
}
