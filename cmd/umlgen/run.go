package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/umlgen/internal/app"
	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/render"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

var (
	runRender bool
	runLang   string
)

var runCmd = &cobra.Command{
	Use:   "run <command-id> <path>...",
	Short: "Run a generator command on the given classes and attributes",
	Long: `Run a generator command over a selection of model elements.

Paths name classes ("Person", "shop.Person") or attributes ("Person.age").
Each generated operation is printed as Owner.signature. With --render the
affected classes are printed as source afterwards.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, ok := naming.ParseLanguage(runLang)
		if !ok {
			return errors.WithHint(errors.Newf("unknown language %q", runLang), "use java or js")
		}

		e, err := app.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		selected := make([]uml.Element, 0, len(args)-1)
		for _, p := range args[1:] {
			el, err := e.Repo.Lookup(p)
			if err != nil {
				return err
			}
			selected = append(selected, el)
		}

		sel := repository.NewSelection(selected...)
		reg := command.NewRegistry()
		if err := command.NewRouter(sel, e.Repo, reg, command.NewMenu()).Install(); err != nil {
			return err
		}

		res, runErr := reg.Execute(cmd.Context(), args[0])
		if res == nil {
			return runErr
		}
		out := cmd.OutOrStdout()
		for _, sig := range res.Signatures() {
			fmt.Fprintln(out, sig)
		}
		if res.Skipped > 0 {
			fmt.Fprintf(out, "skipped %d of %d element(s)\n", res.Skipped, res.Elements)
		}

		if runRender {
			seen := make(map[*uml.Classifier]bool)
			for _, op := range res.Operations {
				if op.Parent == nil || seen[op.Parent] {
					continue
				}
				seen[op.Parent] = true
				src, err := render.Source(op.Parent, lang)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, src)
			}
		}
		return runErr
	},
}

func init() {
	runCmd.Flags().BoolVar(&runRender, "render", false, "print the affected classes as source")
	runCmd.Flags().StringVarP(&runLang, "lang", "l", "java", "source language for --render (java|js)")
}
