package run

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"bitbucket.org/creachadair/shell"
	"bitbucket.org/creachadair/stringset"
	"github.com/alexflint/go-arg"
	"github.com/spf13/viper"

	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exported constants.
const (
	// DefaultInputClass matches any class and captures its name.
	DefaultInputClass = "(.*)"
	// DefaultOutputClass prefixes the captured class name with Mock.
	DefaultOutputClass = `Mock\1`
	// DefaultController is the name of the controller member of the mock object.
	DefaultController = "control"
)

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	InputPath   string   `arg:"positional"          help:"path to the header declaring the class to mock"`
	OutputPath  string   `arg:"positional"          help:"path to the generated header; the .cpp file is saved next to it"`
	InputClass  string   `arg:"-i,--input-class"    help:"pattern matching the class to mock (default: (.*))"`
	OutputClass string   `arg:"-o,--output-class"   help:"name of the mock class, may refer to \\1 (default: Mock\\1)"`
	Access      []string `arg:"-a,--access,separate" help:"access specifiers of the mocked methods, repeatable or comma separated (default: public,protected,private)"`
	Namespace   string   `arg:"-n,--namespace"      help:"namespace of the mock, relative to the class namespace unless it starts with ::"`
	Controller  string   `arg:"-c,--controller"     help:"name of the controller member (default: control)"`
	Clang       string   `arg:"--clang"             help:"clang executable (default: $DRMOCK_CLANG or clang)"`
	Config      string   `arg:"--config"            help:"YAML, TOML or JSON file with defaults and a list of mocks"`
	Cache       bool     `arg:"--cache"             help:"reuse mocks of unchanged headers"`
	Verbose     bool     `arg:"-v,--verbose"        help:"log debug output"`
	Flags       []string `arg:"-f,--flags"          help:"C++ compiler flags; must come last"`
}

// Description is shown at the top of the help text.
func (cliArgs) Description() string {
	return "Create mock object .h and .cpp files for a C++ class."
}

// Epilogue is shown at the bottom of the help text.
func (cliArgs) Epilogue() string {
	return `The .cpp file is saved in the same directory as the .h file.

Always use --flags last, since compiler options may start with --.

--input-class must match a class in input_path; if several match, the first
is chosen. --output-class may contain a backreference (\1) to a group
captured by --input-class.`
}

// fileConfig is the content of a --config file.
type fileConfig struct {
	Access     []string    `mapstructure:"access"`
	Namespace  string      `mapstructure:"namespace"`
	Controller string      `mapstructure:"controller"`
	Clang      string      `mapstructure:"clang"`
	Flags      string      `mapstructure:"flags"`
	Mocks      []jobConfig `mapstructure:"mocks"`
}

// jobConfig is one mock of a --config file. Relative paths are relative to the config file.
type jobConfig struct {
	Input       string `mapstructure:"input"`
	Output      string `mapstructure:"output"`
	InputClass  string `mapstructure:"input_class"`
	OutputClass string `mapstructure:"output_class"`
	Namespace   string `mapstructure:"namespace"`
}

// job is one header to mock.
type job struct {
	Input       string
	Output      string
	InputClass  string
	OutputClass string
	Namespace   string
}

// settings are the resolved options shared by all jobs.
type settings struct {
	Jobs       []job
	Access     []model.Access
	Controller string
	Clang      string
	Flags      []string
	Cache      bool
	Verbose    bool
}

// parseArgs parses command-line arguments into cliArgs. Everything after -f or --flags is taken
// verbatim as compiler flags. If help was requested, it is written to helpOut and ok is false.
func parseArgs(args []string, helpOut *bytes.Buffer) (parsed cliArgs, ok bool, err error) {
	parser, err := arg.NewParser(arg.Config{Program: "drmockgen", IgnoreEnv: true}, &parsed)
	if err != nil {
		return cliArgs{}, false, errors.Wrap(err, "failed to create argument parser")
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	cmdArgs, flags := splitFlags(cmdArgs)

	err = parser.Parse(cmdArgs)
	if errors.Is(err, arg.ErrHelp) {
		parser.WriteHelp(helpOut)

		return cliArgs{}, false, nil
	}

	if err != nil {
		return cliArgs{}, false, errors.Mark(errors.Wrap(err, "failed to parse arguments"), errors.ErrUsage)
	}

	parsed.Flags = flags

	return parsed, true, nil
}

// splitFlags cuts the compiler flags off args. A flag glued to the option, as in "-f --std=c++17" or
// "--flags=-DX", is the first compiler flag; its leading whitespace is dropped.
func splitFlags(args []string) (rest, flags []string) {
	for i, a := range args {
		var first string

		switch {
		case a == "-f" || a == "--flags":
		case strings.HasPrefix(a, "--flags="):
			first = strings.TrimPrefix(a, "--flags=")
		case strings.HasPrefix(a, "-f") && !strings.HasPrefix(a, "--"):
			first = strings.TrimLeft(a[2:], " \t")
		default:
			continue
		}

		if first != "" {
			flags = append(flags, first)
		}

		return args[:i], append(flags, args[i+1:]...)
	}

	return args, nil
}

// loadConfig reads the config file at path with viper. The file type follows the extension.
func loadConfig(path string, fs FileSystem) (fileConfig, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return fileConfig{}, errors.Mark(errors.Wrapf(err, "reading config %s", path), errors.ErrConfig)
	}

	v := viper.New()
	v.SetConfigFile(path)

	err = v.ReadConfig(bytes.NewReader(data))
	if err != nil {
		return fileConfig{}, errors.Mark(errors.Wrapf(err, "parsing config %s", path), errors.ErrConfig)
	}

	var cfg fileConfig

	err = v.Unmarshal(&cfg)
	if err != nil {
		return fileConfig{}, errors.Mark(errors.Wrapf(err, "decoding config %s", path), errors.ErrConfig)
	}

	dir := filepath.Dir(path)

	for i, mock := range cfg.Mocks {
		if mock.Input == "" || mock.Output == "" {
			return fileConfig{}, errors.Mark(
				errors.Newf("config %s: mock %d needs both input and output", path, i+1),
				errors.ErrConfig,
			)
		}

		cfg.Mocks[i].Input = relativeTo(dir, mock.Input)
		cfg.Mocks[i].Output = relativeTo(dir, mock.Output)
	}

	return cfg, nil
}

// resolve merges command line, environment and config file. The command line wins over the
// environment, which wins over the config file.
func resolve(cli cliArgs, cfg fileConfig, getEnv func(string) string) (settings, error) {
	result := settings{
		Controller: firstNonEmpty(cli.Controller, cfg.Controller, DefaultController),
		Clang:      firstNonEmpty(cli.Clang, getEnv(ClangEnv), cfg.Clang),
		Flags:      cli.Flags,
		Cache:      cli.Cache,
		Verbose:    cli.Verbose,
	}

	access, err := parseAccess(cli.Access)
	if err != nil {
		return settings{}, err
	}

	if len(access) == 0 {
		access, err = parseAccess(cfg.Access)
		if err != nil {
			return settings{}, errors.Mark(err, errors.ErrConfig)
		}
	}

	if len(access) == 0 {
		access = []model.Access{model.Public, model.Protected, model.Private}
	}

	result.Access = access

	if len(result.Flags) == 0 && cfg.Flags != "" {
		flags, ok := shell.Split(cfg.Flags)
		if !ok {
			return settings{}, errors.Mark(errors.Newf("unbalanced quotes in flags %q", cfg.Flags), errors.ErrConfig)
		}

		result.Flags = flags
	}

	if include := getEnv(IncludeEnv); include != "" {
		result.Flags = append(slices.Clone(result.Flags), "-I", include)
	}

	namespace := firstNonEmpty(cli.Namespace, cfg.Namespace)

	for _, mock := range cfg.Mocks {
		result.Jobs = append(result.Jobs, job{
			Input:       mock.Input,
			Output:      mock.Output,
			InputClass:  firstNonEmpty(mock.InputClass, DefaultInputClass),
			OutputClass: firstNonEmpty(mock.OutputClass, DefaultOutputClass),
			Namespace:   firstNonEmpty(mock.Namespace, namespace),
		})
	}

	switch {
	case cli.InputPath != "" && cli.OutputPath != "":
		result.Jobs = append(result.Jobs, job{
			Input:       cli.InputPath,
			Output:      cli.OutputPath,
			InputClass:  firstNonEmpty(cli.InputClass, DefaultInputClass),
			OutputClass: firstNonEmpty(cli.OutputClass, DefaultOutputClass),
			Namespace:   namespace,
		})
	case cli.InputPath != "":
		return settings{}, errors.Mark(errors.New("output_path is required with input_path"), errors.ErrUsage)
	}

	if len(result.Jobs) == 0 {
		return settings{}, errors.WithHint(
			errors.Mark(errors.New("input_path and output_path are required"), errors.ErrUsage),
			"pass both paths or a --config file listing mocks",
		)
	}

	return result, nil
}

// parseAccess validates access specifiers. Values may be comma separated.
func parseAccess(values []string) ([]model.Access, error) {
	valid := stringset.New(
		string(model.Public), string(model.Protected), string(model.Private), string(model.Signals),
	)

	var result []model.Access

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			if !valid.Contains(part) {
				return nil, errors.WithHintf(
					errors.Mark(errors.Newf("invalid access specifier %q", part), errors.ErrUsage),
					"valid specifiers are %s", strings.Join(valid.Elements(), ", "),
				)
			}

			result = append(result, model.Access(part))
		}
	}

	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func relativeTo(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}
