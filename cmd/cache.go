package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"smart-tutor-pipeline/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Media cache utilities",
}

var cachePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the media cache backend connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewRedisStore(cfg.Cache)
		if err != nil {
			return fmt.Errorf("cache backend unreachable: %w", err)
		}
		defer store.Close()
		fmt.Println("cache backend OK:", cfg.Cache.RedisAddr)
		return nil
	},
}

var cacheKeyCmd = &cobra.Command{
	Use:   "key [phrase]",
	Short: "Show the cache key a search phrase maps to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cache.Key(args[0]))
	},
}

func init() {
	cacheCmd.AddCommand(cachePingCmd, cacheKeyCmd)
	rootCmd.AddCommand(cacheCmd)
}
