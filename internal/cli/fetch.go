package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/playlist"
)

var fetchJobs int

var fetchCmd = &cobra.Command{
	Use:   "fetch URL...",
	Short: "Download URLs into the cache without playing them",
	Long: `Fetch downloads every URL concurrently into the cache. Repeated URLs share
a single transfer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchJobs, "jobs", "j", 4, "maximum concurrent fetches")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, urls []string) error {
	for _, u := range urls {
		if err := playlist.ValidateURL(u); err != nil {
			return errmsg.Wrap(errmsg.OpQueueAppend, "", err)
		}
	}

	c, err := openCache()
	if err != nil {
		return err
	}
	defer c.Close()
	dl := newDownloader(c)

	out := cmd.OutOrStdout()
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, fetchJobs))
	for _, u := range urls {
		g.Go(func() error {
			data, err := dl.Fetch(ctx, u)
			if err != nil {
				return errmsg.Wrap(errmsg.OpDownloadFetch, u, err)
			}
			fmt.Fprintf(out, "%-10s %s\n", humanize.IBytes(uint64(len(data))), u)
			return nil
		})
	}
	err = g.Wait()

	s := dl.Stats()
	fmt.Fprintf(out, "%d requests, %d network fetches, %d coalesced, %d cache hits\n",
		s.Requests, s.NetworkFetches, s.Coalesced, s.CacheHits)
	return err
}
