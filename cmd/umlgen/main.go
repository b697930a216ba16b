// Command umlgen generates accessors and constructors in a UML model and
// serves the model over HTTP and a WebSocket shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/umlgen/internal/config"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/logger"
)

var (
	configFile string
	modelPath  string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "umlgen",
	Short: "Generate getters, setters and constructors for UML classes",
	Long: `umlgen - accessor and constructor generation for UML models.

Models are CUE files: each definition is a class, each field an attribute.
Without --model the built-in sample model is opened.

Examples:
  umlgen commands                                # list generator commands
  umlgen run generate shop.Person                # getters & setters for Person
  umlgen run generate_full_constructor_js Order --render
  umlgen render shop.Person --lang js            # print a class as source
  umlgen shell                                   # interactive shell on stdin
  umlgen serve                                   # HTTP API and WebSocket shell`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.New(configFile)
		if err != nil {
			return err
		}
		if modelPath != "" {
			v.Set("model.path", modelPath)
		}
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		return logger.Initialize(cfg.Log.JSON, cfg.Log.Level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./umlgen.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&modelPath, "model", "m", "", "CUE model file (overrides model.path)")

	rootCmd.AddCommand(serveCmd, runCmd, commandsCmd, renderCmd, shellCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", h)
		}
		os.Exit(1)
	}
}
