// Command readenv resolves the fields declared in a schema file from secret
// files, a dotenv file and the environment, and prints the result.
//
//	readenv -schema fields.yaml -dotenv .env -format json
//
// The env format is keyed by environment key, so its output can be sourced
// by a shell or passed to docker --env-file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ygrebnov/readenv"
	"github.com/ygrebnov/readenv/internal/logger"
	"github.com/ygrebnov/readenv/streams"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	schema     string
	secretsDir string
	dotenv     string
	overrides  string
	prefix     string
	format     string
	out        string
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "readenv: %v\n", err)
		return exitUsage
	}

	log := logger.NewLogger(stderr, "readenv", opts.verbose)
	if err := resolve(opts, stdout, log); err != nil {
		log.Error().Err(err).Msg("resolve failed")
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("readenv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.schema, "schema", "", "Schema file (.yaml, .yml or .json)")
	fs.StringVar(&o.secretsDir, "secrets-dir", readenv.DefaultSecretsDir, "Secret files directory")
	fs.StringVar(&o.dotenv, "dotenv", "", "Dotenv file")
	fs.StringVar(&o.overrides, "overrides", "", "Per-field overrides file (.yaml, .yml or .json)")
	fs.StringVar(&o.prefix, "prefix", "", "Environment key prefix, e.g. APP")
	fs.StringVar(&o.format, "format", "env", "Output format: env, json or yaml")
	fs.StringVar(&o.out, "out", "", "Write to this file instead of stdout; the format follows its extension")
	fs.BoolVar(&o.verbose, "v", false, "Log the source of every field to stderr")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.schema == "" {
		return o, errors.New("-schema is required")
	}
	if o.secretsDir == "" {
		return o, errors.New("-secrets-dir cannot be empty")
	}
	switch o.format {
	case "env", "json", "yaml":
	default:
		return o, fmt.Errorf("unknown -format %q", o.format)
	}
	return o, nil
}

func resolve(o options, stdout io.Writer, log *logger.Logger) error {
	schema, err := readenv.LoadSchema(o.schema)
	if err != nil {
		return err
	}

	naming := readenv.PrefixNaming(o.prefix, readenv.DefaultNaming{})
	ropts := []readenv.Option{
		readenv.WithSecretsDir(o.secretsDir),
		readenv.WithNaming(naming),
		readenv.WithStreams(streams.Zerolog(log.Logger, zerolog.InfoLevel, zerolog.WarnLevel)),
	}
	if o.dotenv != "" {
		ropts = append(ropts, readenv.WithDotenvFile(o.dotenv))
	}
	if o.overrides != "" {
		ropts = append(ropts, readenv.WithOverridesFile(o.overrides))
	}

	rec, err := readenv.Resolve(schema, ropts...)
	if err != nil {
		return err
	}

	envKeys := func(r readenv.Record) readenv.Record {
		keys := make(map[string]string, len(schema))
		for _, f := range schema {
			keys[f.Name] = f.EnvKey(naming)
		}
		return r.Rename(func(name string) string { return keys[name] })
	}

	if o.out != "" {
		if filepath.Ext(o.out) == ".env" || filepath.Base(o.out) == ".env" {
			rec = envKeys(rec)
		}
		if err := rec.WriteFile(o.out); err != nil {
			return err
		}
		log.Info().Str("path", o.out).Int("fields", rec.Len()).Msg("record written")
		return nil
	}

	if o.format == "env" {
		rec = envKeys(rec)
	}
	data, err := rec.Format(o.format)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
