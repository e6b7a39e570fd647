package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavecast/internal/errmsg"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the download cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache usage",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached download",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	c, err := openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	s, err := c.Stats()
	if err != nil {
		return errmsg.Wrap(errmsg.OpCacheStats, "", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Directory: %s\n", cfg.GetCacheConfig().Dir)
	fmt.Fprintf(out, "Entries:   %d\n", s.Entries)
	fmt.Fprintf(out, "Size:      %s of %s (%.0f%%)\n",
		humanize.IBytes(uint64(s.TotalBytes)), humanize.IBytes(uint64(s.Quota)), usage(s.TotalBytes, s.Quota))
	if !s.Oldest.IsZero() {
		fmt.Fprintf(out, "Oldest:    %s\n", humanize.Time(s.Oldest))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	c, err := openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	before := c.CurrentSize()
	if err := c.Clear(); err != nil {
		return errmsg.Wrap(errmsg.OpCacheClear, "", err)
	}
	if err := openArtwork().Clear(); err != nil {
		return errmsg.Wrap(errmsg.OpCacheClear, "", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Freed %s\n", humanize.IBytes(uint64(before)))
	return nil
}

func usage(used, quota int64) float64 {
	if quota <= 0 {
		return 0
	}
	return float64(used) / float64(quota) * 100
}
