// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/soteria-bft/soteria/node"
)

const (
	flagDebug   = "debug"
	flagDataDir = "datadir"
	flagAPIPort = "apiport"
	flagEpoch   = "epoch"
)

var rootCmd = &cobra.Command{
	Use:   "soteria",
	Short: "Soteria validator",
	Run: func(cmd *cobra.Command, args []string) {
		config := node.DefaultConfig
		var err error
		config.Debug, err = cmd.Flags().GetBool(flagDebug)
		check(err)
		config.Datadir, err = cmd.Flags().GetString(flagDataDir)
		check(err)
		config.APIPort, err = cmd.Flags().GetInt(flagAPIPort)
		check(err)
		config.Epoch, err = cmd.Flags().GetUint64(flagEpoch)
		check(err)

		node.Run(config)
	},
}

func main() {
	check(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().Bool(flagDebug, false, "debug mode")
	rootCmd.PersistentFlags().StringP(flagDataDir, "d", "", "node data directory")
	rootCmd.MarkPersistentFlagRequired(flagDataDir)

	rootCmd.Flags().IntP(flagAPIPort, "p", node.DefaultConfig.APIPort, "api port")
	rootCmd.Flags().Uint64(flagEpoch, node.DefaultConfig.Epoch, "current epoch")
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
