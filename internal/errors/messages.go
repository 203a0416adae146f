package errors

import "fmt"

// DataDirNotFound reports a missing corpus directory.
func DataDirNotFound(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("data directory not found: %s", dir),
		"Set data_dir in .mongdata/config.json or MONGDATA_DATA_DIR",
	)
}

// TableNotFound reports a required table file missing from the corpus.
func TableNotFound(dir, table string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("required table %q not found in %s", table, dir),
		fmt.Sprintf("Create %s.yaml or %s.json in the data directory", table, table),
	)
}

// CorpusLoadError wraps a table decoding failure.
func CorpusLoadError(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite, "loading corpus",
		"Fix the reported file and line, then run the command again",
	)
}

// ConfigParseError wraps a configuration loading failure.
func ConfigParseError(path string, err error) *CLIError {
	if path == "" {
		path = "configuration"
	}
	return WrapWithMessage(err, Configuration, fmt.Sprintf("failed to load %s", path),
		"Check the file is a valid JSON object",
		"Unset MONGDATA_* environment variables that hold invalid values",
	)
}

// InvalidPosition reports an unknown positional form name.
func InvalidPosition(value string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid position %q", value),
		"Use one of: isol, init, medi, fina",
	)
}

// InvalidLocale reports an unknown locale identifier.
func InvalidLocale(value string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid locale %q", value),
		"Use one of: MNG, MNGx, TOD, TODx, SIB, MCH, MCHx",
	)
}

// InvalidPattern reports a character pattern that cannot be compiled.
func InvalidPattern(pattern string, err error) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     fmt.Sprintf("invalid character pattern %q: %v", pattern, err),
		Usage:       "mongdata resolve <pattern>",
		Remediation: []string{"Quote the pattern so the shell does not expand it"},
		cause:       err,
	}
}

// NoCharactersMatched reports a pattern that matched nothing in the corpus.
func NoCharactersMatched(pattern string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("no character matches %q", pattern),
		"Character names are matched case-sensitively, e.g. \"MONGOLIAN LETTER A\"",
	)
}

// OutputNotWritable reports an export directory that could not be written.
func OutputNotWritable(dir string, err error) *CLIError {
	return WrapWithMessage(err, Runtime, fmt.Sprintf("cannot write to %s", dir),
		"Check permissions on the output directory or set output_dir to another one",
	)
}
