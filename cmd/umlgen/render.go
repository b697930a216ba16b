package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/umlgen/internal/app"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/render"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

var renderLang string

var renderCmd = &cobra.Command{
	Use:   "render <class>",
	Short: "Print a class as Java or JavaScript source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, ok := naming.ParseLanguage(renderLang)
		if !ok {
			return errors.WithHint(errors.Newf("unknown language %q", renderLang), "use java or js")
		}
		e, err := app.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		el, err := e.Repo.Lookup(args[0])
		if err != nil {
			return err
		}
		c, ok := el.(*uml.Classifier)
		if !ok {
			return errors.Newf("%s is a %s, not a class", repository.PathOf(el), uml.KindOf(el))
		}
		src, err := render.Source(c, lang)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), src)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderLang, "lang", "l", "java", "source language (java|js)")
}
