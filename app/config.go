// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/utils/homedir"
)

const configFlagName = "config"

var cfgFile string

func init() {
	pflag.StringVarP(&cfgFile, configFlagName, "c", cfgFile, "Read configuration from specified `FILE`, "+
		"support JSON, TOML, YAML, HCL, or Java properties formats.")
}

// addConfigFlag adds flags for a specific application to the specified FlagSet
// object. Without --config, a file named after the application is looked up
// in the working directory, ~/.<name> and /etc/<name>, and may be absent.
func addConfigFlag(appName string, fs *pflag.FlagSet) {
	fs.AddFlag(pflag.Lookup(configFlagName))

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix(appName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cobra.OnInitialize(func() {
		if err := readConfig(appName, cfgFile); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: failed to read configuration file(%s): %v\n", cfgFile, err)
			os.Exit(1)
		}
	})
}

func envPrefix(appName string) string {
	return strings.ReplaceAll(strings.ToUpper(appName), "-", "_")
}

func readConfig(appName, file string) error {
	if file != "" {
		viper.SetConfigFile(file)
	} else {
		base, _, _ := strings.Cut(appName, "-")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(homedir.HomeDir(), "."+base))
		viper.AddConfigPath(filepath.Join("/etc", base))
		viper.SetConfigName(appName)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if file == "" && errors.As(err, &notFound) {
		return nil
	}

	return err
}
