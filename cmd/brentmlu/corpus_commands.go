package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConcatCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "concat <dir>",
		Short: "Concatenate transcripts into one corpus file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			files, path, err := runner.ConcatenateDir(cmd.Context(), args[0], outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Concatenated %d file(s) into %s\n", len(files), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Corpus file to write (default: output_dir/brent_corpus.cha)")
	return cmd
}

func newLemmasCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "lemmas <corpus>",
		Short: "List the distinct lemmas of a corpus's morphology tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			lemmas, path, err := runner.CollectLemmasFile(cmd.Context(), args[0], outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d lemma(s) to %s\n", len(lemmas), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Lemma list to write (default: output_dir/brent_lemmas.txt)")
	return cmd
}

func newOrthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "orth <utterances.csv>",
		Short: "Map utterance words to their lemma and part of speech",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			tokens, path, err := runner.OrthographyFromFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d word(s) to %s\n", len(tokens), path)
			return nil
		},
	}
}
