package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/config"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/constants"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
)

var (
	configShowDefaultsFlag  bool
	configShowEffectiveFlag bool
	configInitFlag          bool
	configValidateFlag      bool
	configPathFlag          string
	configDirFlag           string
)

var writeFileFunc = os.WriteFile

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, validate or create configuration",
	Long:  `Show the built-in or effective configuration, validate a config file, or write a starter ` + config.DefaultConfigFileName + `.`,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowDefaultsFlag, "show-defaults", false, "Show default configuration")
	configCmd.Flags().BoolVar(&configShowEffectiveFlag, "show-effective", false, "Show effective configuration")
	configCmd.Flags().BoolVar(&configInitFlag, "init", false, "Create "+config.DefaultConfigFileName+" template")
	configCmd.Flags().BoolVar(&configValidateFlag, "validate", false, "Validate configuration file (rejects unknown fields)")
	configCmd.Flags().StringVarP(&configPathFlag, "config", "c", "", "Config file path")
	configCmd.Flags().StringVarP(&configDirFlag, "directory", "d", ".", "Directory holding "+config.DefaultConfigFileName)
}

// runConfig executes the config command with the specified flags.
//
// Behavior depends on flags:
//   - --init: Creates a .pytyped.yml template file
//   - --validate: Validates the configuration file
//   - --show-defaults: Displays the built-in configuration
//   - --show-effective: Displays the merged configuration as YAML
//
// Returns:
//   - error: Returns error on validation or file operation failure
func runConfig(cmd *cobra.Command, args []string) error {
	if configInitFlag {
		return createConfigTemplate()
	}

	if configValidateFlag {
		return validateConfigFile()
	}

	if configShowDefaultsFlag {
		fmt.Println("Default configuration:")
		fmt.Println()
		fmt.Println(config.GetDefaultConfig())
		return nil
	}

	if configShowEffectiveFlag {
		cfg, err := loadConfigFunc(configPathFlag, configDirFlag)
		if err != nil {
			return errors.NewExitError(errors.ExitConfigError, err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}

		fmt.Println("Effective configuration:")
		fmt.Println()
		if cfg.Source != "" {
			fmt.Printf("# Source: %s\n", cfg.Source)
		} else {
			fmt.Println("# Source: built-in defaults")
		}
		fmt.Print(string(data))
		return nil
	}

	return cmd.Help()
}

// validateConfigFile loads the --config path, or .pytyped.yml in the
// directory, and reports whether it decodes and validates.
//
// Returns:
//   - error: ExitError with ExitConfigError on read or validation failure
func validateConfigFile() error {
	configPath := configPathFlag
	if configPath == "" {
		configPath = filepath.Join(configDirFlag, config.DefaultConfigFileName)
	}

	if _, err := os.Stat(configPath); err != nil {
		return errors.NewExitError(errors.ExitConfigError, fmt.Errorf("failed to read config file '%s': %w", configPath, err))
	}

	if _, err := loadConfigFunc(configPath, configDirFlag); err != nil {
		fmt.Printf("%s Configuration validation failed for: %s\n\n", constants.IconError, configPath)
		fmt.Printf("  ERROR: %s\n\n", err)
		fmt.Printf("%s Run 'pytyped config --show-defaults' to see every supported key\n", constants.IconLightbulb)
		verbose.Infof("Exit code %d (config error): configuration validation failed for %s", errors.ExitConfigError, configPath)
		return errors.NewExitErrorf(errors.ExitConfigError, "configuration validation failed for %s", configPath)
	}

	fmt.Printf("%s Configuration valid: %s\n", constants.IconCheckmarkBox, configPath)
	return nil
}

// createConfigTemplate writes the built-in configuration to .pytyped.yml in
// the directory. Fails if the file already exists.
func createConfigTemplate() error {
	configPath := filepath.Join(configDirFlag, config.DefaultConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	// Owner read/write only
	if err := writeFileFunc(configPath, []byte(config.GetDefaultConfig()), 0600); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created configuration template: %s\n", configPath)
	return nil
}
