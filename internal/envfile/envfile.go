// Package envfile reads dotenv-style files holding extra environment
// variables for npm child processes.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/conn-castle/npm-check-install/internal/messages"
)

// Var is a single KEY=VALUE assignment.
type Var struct {
	Key   string
	Value string
}

// Load reads and parses the env file at path.
func Load(path string) ([]Var, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.EnvfileLoadFailedFmt, path, err)
	}
	vars, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.EnvfileLoadFailedFmt, path, err)
	}
	return vars, nil
}

// Parse reads env content into assignments in file order.
// A key assigned twice keeps its first position and its last value.
func Parse(content string) ([]Var, error) {
	var vars []Var
	index := make(map[string]int)

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, lineNo, err)
		}
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			vars[i].Value = value
			continue
		}
		index[key] = len(vars)
		vars = append(vars, Var{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return vars, nil
}

// parseLine returns the key and value of an assignment line.
// Blank lines and # comments report ok=false.
func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))

	key, value, found := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false, errors.New(messages.EnvfileExpectedKeyValue)
	}
	value = strings.TrimSpace(value)

	switch {
	case strings.HasPrefix(value, `"`):
		unquoted, err := unquote(value, '"')
		if err != nil {
			return "", "", false, err
		}
		value = unescape(unquoted)
	case strings.HasPrefix(value, `'`):
		unquoted, err := unquote(value, '\'')
		if err != nil {
			return "", "", false, err
		}
		value = unquoted
	}
	return key, value, true, nil
}

// unquote strips the quotes around value. Inside double quotes a backslash
// escapes the next byte. Only whitespace or a # comment may follow the closing quote.
func unquote(value string, quote byte) (string, error) {
	closing := -1
	for i := 1; i < len(value); i++ {
		if quote == '"' && value[i] == '\\' {
			i++
			continue
		}
		if value[i] == quote {
			closing = i
			break
		}
	}
	if closing < 0 {
		return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
	}
	rest := strings.TrimSpace(value[closing+1:])
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return "", errors.New(messages.EnvfileInvalidQuotedSuffix)
	}
	return value[1:closing], nil
}

// unescape decodes \\, \", \n and \r inside a double-quoted value.
func unescape(escaped string) string {
	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		if escaped[i] == '\\' && i+1 < len(escaped) {
			switch escaped[i+1] {
			case '\\', '"':
				b.WriteByte(escaped[i+1])
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			}
		}
		b.WriteByte(escaped[i])
	}
	return b.String()
}
