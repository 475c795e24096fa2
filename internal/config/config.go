package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const DefaultPath = "/etc/sntp.conf"

const (
	defaultTimeout     = 1
	defaultMaxInterval = 3600
)

type Config struct {
	Server      string
	Timeout     int     // seconds
	MaxInterval float64 // seconds between resyncs
	TTL         int
	TOS         int
	Verbose     bool
	Socket      string
}

type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config parse error: line %d: %s", e.Line, e.Msg)
}

func Default() Config {
	return Config{
		Timeout:     defaultTimeout,
		MaxInterval: defaultMaxInterval,
	}
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("file at %s could not be read for configuration: %w", path, err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads the line oriented format:
//
//	server <host[:port]> [timeout N] [maxinterval N] [ttl N] [tos N]
//	verbose
//	socket <path>
//
// Each server line replaces the previous one, options included.
func Parse(r io.Reader) (Config, error) {
	config := Default()

	lineNumber := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNumber++
		arguments := strings.Fields(scanner.Text())
		if len(arguments) == 0 || strings.HasPrefix(arguments[0], "#") {
			continue
		}

		parseError := func(args ...any) error {
			return &ParseError{Line: lineNumber, Msg: fmt.Sprint(args...)}
		}

		switch arguments[0] {
		case "server":
			if len(arguments) < 2 {
				return Config{}, parseError("missing required argument \"address\"")
			}

			timeout, err := integerArgument("timeout", defaultTimeout, &arguments)
			if err != nil {
				return Config{}, parseError(err)
			}
			maxInterval, err := integerArgument("maxinterval", defaultMaxInterval, &arguments)
			if err != nil {
				return Config{}, parseError(err)
			}
			ttl, err := integerArgument("ttl", 0, &arguments)
			if err != nil {
				return Config{}, parseError(err)
			}
			tos, err := integerArgument("tos", 0, &arguments)
			if err != nil {
				return Config{}, parseError(err)
			}

			if len(arguments) > 2 {
				return Config{}, parseError("invalid arguments supplied to command, one was: \"", arguments[2], "\"")
			}
			if timeout < 0 {
				return Config{}, parseError("timeout must not be negative")
			}
			if maxInterval <= 0 {
				return Config{}, parseError("maxinterval must be positive")
			}
			if ttl < 0 || ttl > 255 {
				return Config{}, parseError("ttl must be between 0 and 255")
			}
			if tos < 0 || tos > 255 {
				return Config{}, parseError("tos must be between 0 and 255")
			}

			config.Server = arguments[1]
			config.Timeout = timeout
			config.MaxInterval = float64(maxInterval)
			config.TTL = ttl
			config.TOS = tos
		case "verbose":
			config.Verbose = true
		case "socket":
			if len(arguments) < 2 {
				return Config{}, parseError("missing required argument \"path\"")
			}
			config.Socket = arguments[1]
		default:
			return Config{}, parseError("invalid command: ", arguments[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func integerArgument(name string, initial int, arguments *[]string) (int, error) {
	valueStr, err := stringArgument(name, strconv.Itoa(initial), arguments)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s argument requires an integer value", name)
	}
	return value, nil
}

func stringArgument(name string, initial string, arguments *[]string) (string, error) {
	for i, argument := range *arguments {
		if i < 2 || name != argument {
			continue
		}
		if i == len(*arguments)-1 {
			return "", fmt.Errorf("no value supplied for argument: %s", argument)
		}

		value := (*arguments)[i+1]
		removeIndex(arguments, i+1)
		removeIndex(arguments, i)
		return value, nil
	}
	return initial, nil
}

func removeIndex[T any](s *[]T, index int) {
	ret := make([]T, 0, len(*s)-1)
	ret = append(ret, (*s)[:index]...)
	ret = append(ret, (*s)[index+1:]...)
	*s = ret
}
