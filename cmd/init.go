package cmd

import (
	"fmt"
	"os"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/u-blox/arrayify/internal/config"
	"github.com/u-blox/arrayify/internal/templates"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented arrayify.yaml into the current directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// runInit scaffolds a configuration file holding the built-in defaults.
// It refuses to overwrite an existing one.
//
// Returns:
//   - error: An error if arrayify.yaml already exists or cannot be written.
func runInit() error {
	if _, err := os.Stat(config.DefaultFile); !os.IsNotExist(err) {
		return fmt.Errorf("%s already exists", config.DefaultFile)
	}

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	data := struct {
		LineLength int
		Extension  string
	}{
		LineLength: cfg.Defaults.LineLength,
		Extension:  cfg.Defaults.Extension,
	}
	if err := generateFileFromTemplate("arrayify.yaml.tmpl", config.DefaultFile, data); err != nil {
		return err
	}

	fmt.Printf("Created %s.\n", config.DefaultFile)
	fmt.Println("Edit it to set per-project defaults; command-line flags still override it.")
	return nil
}

// generateFileFromTemplate creates a file at destPath using the specified template and data.
//
// Parameters:
//   - tmplName: The name of the template file to use.
//   - destPath: The path where the generated file should be written.
//   - data: The data object to pass to the template.
//
// Returns:
//   - error: An error if the template cannot be read or executed.
func generateFileFromTemplate(tmplName, destPath string, data interface{}) error {
	content, err := templates.Get(tmplName)
	if err != nil {
		return err
	}
	t, err := template.New(tmplName).Parse(content)
	if err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}
