// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadEnvFile loads a dotenv file and merges its contents into the provided
// env map. The path is resolved relative to basePath (the matrixfile
// directory). Files suffixed with '?' are optional; missing optional files
// do not cause an error. Later calls override earlier values for the same
// keys.
func LoadEnvFile(env map[string]string, path, basePath string) error {
	optional := strings.HasSuffix(path, "?")
	if optional {
		path = strings.TrimSuffix(path, "?")
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(basePath, filepath.FromSlash(path))
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	return ParseEnvFile(env, content, path)
}

// ParseEnvFile parses dotenv format content and merges into the env map.
// Supported format:
//   - Lines starting with # are comments
//   - Empty lines are ignored
//   - KEY=value (unquoted)
//   - KEY="value" (double-quoted, escape sequences: \n, \r, \t, \\, \")
//   - KEY='value' (single-quoted, literal)
//   - export KEY=value (export prefix is ignored)
//   - KEY= (empty value)
//
// The filename parameter is used for error messages.
func ParseEnvFile(env map[string]string, content []byte, filename string) error {
	for i, line := range strings.Split(string(content), "\n") {
		lineNum := i + 1

		line = strings.TrimSuffix(line, "\r")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("%s:%d: invalid format (missing '=')", filename, lineNum)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%s:%d: empty variable name", filename, lineNum)
		}

		parsed, err := parseEnvValue(value)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filename, lineNum, err)
		}
		env[key] = parsed
	}
	return nil
}

// parseEnvValue parses a dotenv value, handling quoting and escapes.
func parseEnvValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	switch value[0] {
	case '"':
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", fmt.Errorf("unterminated double quote")
		}
		return unescapeDoubleQuoted(value[1 : len(value)-1])
	case '\'':
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", fmt.Errorf("unterminated single quote")
		}
		return value[1 : len(value)-1], nil
	}
	return value, nil
}

// unescapeDoubleQuoted processes \n, \r, \t, \\ and \" sequences.
func unescapeDoubleQuoted(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("trailing backslash in double-quoted value")
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			return "", fmt.Errorf("unsupported escape sequence '\\%c'", s[i])
		}
	}
	return b.String(), nil
}
