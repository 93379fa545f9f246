// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gitlab.com/fisherprime/groupstream"
	"gitlab.com/fisherprime/groupstream/batch"
	"gitlab.com/fisherprime/groupstream/lexer"
)

type (
	// flags shared by the commands.
	flags struct {
		configPath string
		debug      bool
		workers    int
		tree       bool
	}

	// session holds the values derived from the flags & the config file.
	session struct {
		cfg      *Config
		logger   *logrus.Logger
		lexerCfg *lexer.Config
	}
)

func newRootCmd() *cobra.Command {
	f := new(flags)

	cmd := &cobra.Command{
		Use:   "groupstream [flags] FILE...",
		Short: "Score the groups of a stream & count its garbage",
		Long: `Parses each FILE ("-" for stdin) as a stream of {} groups holding <> garbage,
where ! cancels the following character, then prints the total group score & the
count of non-cancelled garbage characters.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, f, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "trace every parser step")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "number of inputs parsed concurrently (default from config)")
	cmd.Flags().BoolVar(&f.tree, "tree", false, "print the group depths by level")

	cmd.AddCommand(newTokensCmd(f))

	return cmd
}

func newTokensCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:          "tokens FILE",
		Short:        "Print the classification of every character of a stream",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, f, args[0])
		},
	}
}

func (f *flags) load() (s *session, err error) {
	s = new(session)

	if s.cfg, err = LoadConfig(f.configPath); err != nil {
		return nil, err
	}
	if f.debug {
		s.cfg.Logging.Debug = true
	}
	if f.workers > 0 {
		s.cfg.Workers = f.workers
	}

	if s.logger, err = s.cfg.Logger(); err != nil {
		return nil, err
	}
	if s.lexerCfg, err = s.cfg.LexerConfig(s.logger); err != nil {
		return nil, err
	}

	return
}

func runParse(cmd *cobra.Command, f *flags, paths []string) (err error) {
	s, err := f.load()
	if err != nil {
		return
	}
	s.logger.SetOutput(cmd.ErrOrStderr())

	parser, err := groupstream.New(groupstream.WithConfig(s.lexerCfg))
	if err != nil {
		return
	}

	runner, err := batch.New(parser,
		batch.WithWorkers(s.cfg.Workers),
		batch.WithLogger(s.logger),
		batch.WithDebug(s.cfg.Logging.Debug),
	)
	if err != nil {
		return
	}

	jobs := make([]batch.Job, len(paths))
	for index, path := range paths {
		jobs[index] = batch.FileJob(path)
	}

	// Job failures are reported after the successful results.
	results, runErr := runner.Run(cmd.Context(), jobs)

	out := cmd.OutOrStdout()
	for _, result := range results {
		if result.Err != nil {
			continue
		}

		prefix := ""
		if len(results) > 1 {
			prefix = result.Name + ": "
		}

		if err = printResult(out, prefix, result); err != nil {
			return
		}

		if f.tree {
			if err = printTree(cmd, s, prefix, result.Groups); err != nil {
				return
			}
		}
	}

	return runErr
}

func printResult(w io.Writer, prefix string, result batch.Result) (err error) {
	_, err = fmt.Fprintf(w, "%sscore: %d\n%sgarbage: %d\n", prefix, result.Score, prefix, result.Garbage)
	return
}

func printTree(cmd *cobra.Command, s *session, prefix string, groups groupstream.List) (err error) {
	ctx := cmd.Context()

	tree, err := groupstream.BuildTree(ctx, groups,
		groupstream.WithTreeLogger(s.logger),
		groupstream.WithTreeDebug(s.cfg.Logging.Debug),
	)
	if err != nil {
		return
	}

	levels, err := tree.ByLevel(ctx)
	if errors.Is(err, groupstream.ErrNoGroups) {
		return nil
	}
	if err != nil {
		return
	}

	out := cmd.OutOrStdout()
	for index, depths := range levels.Depths() {
		values := make([]string, len(depths))
		for i, depth := range depths {
			values[i] = fmt.Sprint(depth)
		}

		if _, err = fmt.Fprintf(out, "%slevel %d: %s\n", prefix, index+1, strings.Join(values, " ")); err != nil {
			return
		}
	}

	return
}

func runTokens(cmd *cobra.Command, f *flags, path string) (err error) {
	s, err := f.load()
	if err != nil {
		return
	}
	s.logger.SetOutput(cmd.ErrOrStderr())

	input, err := batch.FileJob(path).Load(cmd.Context())
	if err != nil {
		return
	}

	l := lexer.New(lexer.WithConfig(s.lexerCfg), lexer.WithInput(input))

	out := cmd.OutOrStdout()
	for item := range l.Lex(cmd.Context()) {
		if _, err = fmt.Fprintln(out, item); err != nil {
			return
		}
	}
	if err = l.Err(); err != nil {
		return
	}

	return cmd.Context().Err()
}
