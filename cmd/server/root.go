package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/younwookim/remnant/configs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Headless remnant session server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		logger.Init()
		if lvl := viper.GetString("log-level"); lvl != "" {
			parsed, err := logrus.ParseLevel(lvl)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", lvl, err)
			}
			logger.Log.SetLevel(parsed)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default ./remnant.yaml)")
	rootCmd.PersistentFlags().String("config-dir", "", "game config directory (default: embedded configs)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	_ = viper.BindPFlag("config-dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(botsCmd)
	rootCmd.AddCommand(checkCmd)
}

// initConfig reads the optional settings file and REMNANT_* environment
// variables. Flags win over both.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("remnant")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("REMNANT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read settings: %w", err)
		}
	}
	return nil
}

// loader returns the game config loader selected by --config-dir
func loader() *config.Loader {
	dir := viper.GetString("config-dir")
	if dir == "" {
		return config.NewFSLoader(configs.FS, "configs")
	}
	var fsys fs.FS = os.DirFS(dir)
	return config.NewFSLoader(fsys, dir)
}

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "List the available bot scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := loader().Bots()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [level]",
	Short: "Validate game.json and a level",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := ""
		if len(args) == 1 {
			level = args[0]
		}
		bundle, err := loader().LoadAll(level)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: level %s, %d weapons, tick rate %d\n",
			bundle.Level.Name, len(bundle.Game.Weapons), bundle.Game.TickRate)
		return nil
	},
}
