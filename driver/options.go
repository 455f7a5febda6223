package driver

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/fileio"
	"github.com/go-sif/sparkling/logging"
	"gopkg.in/yaml.v3"
)

// Environment variables which override Options
const (
	EnvNumWorkers         = "SPARKLING_NUM_WORKERS"
	EnvDefaultParallelism = "SPARKLING_DEFAULT_PARALLELISM"
	EnvLogLevel           = "SPARKLING_LOG_LEVEL"
)

// Options are options for a Context
type Options struct {
	AppName            string `yaml:"appName"`            // a name for the application, used to name the logger
	NumWorkers         int    `yaml:"numWorkers"`         // the number of Partitions a job computes concurrently. Defaults to 1, which is strictly sequential.
	DefaultParallelism int    `yaml:"defaultParallelism"` // the number of Partitions used when a caller does not specify one. Defaults to NumWorkers.
	LogLevel           string `yaml:"logLevel"`           // the minimum level logged by the default logger: trace, debug, info, warn, error or fatal. Defaults to info.

	Logger     *logr.Logger             `yaml:"-"` // overrides the default logger
	Cache      sparkling.PartitionCache `yaml:"-"` // overrides the default in-memory Partition cache
	FileSystem fileio.Client            `yaml:"-"` // overrides the local file system
}

// CloneOptions makes a copy of an Options
func CloneOptions(opts *Options) *Options {
	return &Options{
		AppName:            opts.AppName,
		NumWorkers:         opts.NumWorkers,
		DefaultParallelism: opts.DefaultParallelism,
		LogLevel:           opts.LogLevel,
		Logger:             opts.Logger,
		Cache:              opts.Cache,
		FileSystem:         opts.FileSystem,
	}
}

// LoadOptions reads Options from a YAML file, such as
//
//	appName: wordcount
//	numWorkers: 4
//	defaultParallelism: 8
//	logLevel: debug
//
// Environment variables are applied on top of the file.
func LoadOptions(path string) (*Options, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := &Options{}
	if err := yaml.Unmarshal(buff, opts); err != nil {
		return nil, fmt.Errorf("Unable to parse options file %s: %w", path, err)
	}
	if err := ApplyEnvironment(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// ApplyEnvironment overrides Options with any of the SPARKLING_ environment variables which are set
func ApplyEnvironment(opts *Options) error {
	if v := os.Getenv(EnvNumWorkers); len(v) > 0 {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("$%s=\"%s\" is not an integer", EnvNumWorkers, v)
		}
		opts.NumWorkers = n
	}
	if v := os.Getenv(EnvDefaultParallelism); len(v) > 0 {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("$%s=\"%s\" is not an integer", EnvDefaultParallelism, v)
		}
		opts.DefaultParallelism = n
	}
	if v := os.Getenv(EnvLogLevel); len(v) > 0 {
		opts.LogLevel = v
	}
	return nil
}

func ensureDefaultOptionsValues(opts *Options) error {
	if len(opts.AppName) == 0 {
		opts.AppName = "sparkling"
	}
	if opts.NumWorkers < 1 {
		opts.NumWorkers = 1
	}
	if opts.DefaultParallelism < 1 {
		opts.DefaultParallelism = opts.NumWorkers
	}
	if len(opts.LogLevel) == 0 {
		opts.LogLevel = logging.LogLevelToString(logging.InfoLevel)
	}
	if _, ok := logging.ParseLogLevel(opts.LogLevel); !ok {
		return fmt.Errorf("Options.LogLevel \"%s\" is not a known log level", opts.LogLevel)
	}
	return nil
}
