package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config keys persisted in $HOME/.iaction-cli.yaml.
const (
	KeyServerURL   = "server_url"
	KeyLogLevel    = "log_level"
	KeyCamerasFile = "cameras_file"
)

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".iaction-cli" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".iaction-cli")
	}

	viper.SetDefault(KeyLogLevel, "info")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		// Config loaded successfully
	}
}

// SaveServer updates the config file with the backend base URL so
// subsequent commands know where to connect.
func SaveServer(serverURL string) error {
	viper.Set(KeyServerURL, serverURL)

	// Ensure the file exists before writing
	if err := viper.WriteConfig(); err != nil {
		// If file doesn't exist, create it
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		// If it exists but failed to write, try writing to default path
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, ".iaction-cli.yaml")
		return viper.WriteConfigAs(path)
	}
	return nil
}

// CamerasFile returns the configured cameras file path, defaulting to
// $HOME/.iaction-cameras.yaml.
func CamerasFile() string {
	if path := viper.GetString(KeyCamerasFile); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".iaction-cameras.yaml"
	}
	return filepath.Join(home, ".iaction-cameras.yaml")
}
