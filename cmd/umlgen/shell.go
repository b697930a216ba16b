package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/umlgen/internal/app"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/repl/meta"
	"github.com/matthewbaird/umlgen/internal/repl/session"
	"github.com/matthewbaird/umlgen/internal/repl/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Read shell lines from stdin and run them against the model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := app.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		sh := shell.New(e.Repo, meta.New(e.Repo))
		sess := session.NewSession()
		out := cmd.OutOrStdout()

		sc := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprint(out, "umlgen> ")
		for sc.Scan() {
			res, err := sh.Execute(ctx, sess, sc.Text())
			if res != nil && res.Output != "" {
				fmt.Fprintln(out, res.Output)
			}
			if err != nil && !errors.Is(err, shell.ErrEmptyLine) {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				for _, h := range errors.GetAllHints(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), "hint:", h)
				}
			}
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprint(out, "umlgen> ")
		}
		fmt.Fprintln(out)
		return sc.Err()
	},
}
