package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/wavecast/internal/downloader"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/lifecycle"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/mpris"
	"github.com/llehouerou/wavecast/internal/notify"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/stderr"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
)

const (
	redrawInterval = 250 * time.Millisecond
	lineWidth      = 100
)

var (
	playNoCache bool
	playVolume  float64
	playNotify  bool
	playMPRIS   bool
)

var playCmd = &cobra.Command{
	Use:   "play URL...",
	Short: "Play a queue of audio URLs",
	Long: `Play downloads and plays each URL in order and exits after the last one.
Ctrl-C stops playback. Suspending the process (Ctrl-Z) pauses the audio and
resuming it continues where it left off.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playNoCache, "no-cache", false, "do not read or write the download cache")
	playCmd.Flags().Float64Var(&playVolume, "volume", 0, "volume 0.0-1.0 (default from config)")
	playCmd.Flags().BoolVar(&playNotify, "notify", false, "show a desktop notification for each item")
	playCmd.Flags().BoolVar(&playMPRIS, "mpris", true, "expose playback controls over MPRIS")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, urls []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Audio backends print to fd 2; keep that off the status line.
	native := logging.Component(logger, "native")
	if capture, err := stderr.Start(func(line string) { native.Debug(line) }); err != nil {
		logger.Debug("stderr capture unavailable", "err", err)
	} else {
		defer capture.Stop()
		logger.SetOutput(capture.Original())
		native.SetOutput(capture.Original())
	}

	var store downloader.Store = nopStore{}
	if !playNoCache {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()
		store = c
	}
	dl := newDownloader(store)

	media := player.New(logger)
	defer media.Close()

	sys := lifecycle.NewSystem(logger)
	defer sys.Close()

	pc := cfg.GetPlaybackConfig()
	engine := playback.New(media, dl, playback.Options{
		ProgressInterval: pc.ProgressInterval(),
		ResumeDelay:      pc.ResumeDelay(),
		Preload:          pc.Preload,
		Lifecycle:        sys,
		Reachability:     sys,
		Logger:           logger,
	})
	defer engine.Close()

	volume := pc.Volume
	if cmd.Flags().Changed("volume") {
		volume = max(0, min(playVolume, 1))
	}
	engine.SetVolume(volume)

	view := &playView{}
	engine.SetCallbacks(playback.Callbacks{
		OnCacheProgress: view.setCached,
		OnStatusChanged: func(s playback.Status) {
			if s == playback.StatusBuffering {
				view.setCached(0)
			}
		},
	})

	art := openArtwork()
	if playMPRIS {
		if adapter, err := mpris.New(engine, art, logger); err != nil {
			logger.Warn("mpris unavailable", "err", err)
		} else {
			defer adapter.Close()
		}
	}
	if playNotify {
		n, err := notify.New()
		if err != nil {
			logger.Warn("notifications unavailable", "err", err)
		} else {
			go notify.NewAnnouncer(n, engine, art, logger).Run(ctx, engine.Subscribe())
		}
	}
	stopJobControl := watchJobControl(sys)
	defer stopJobControl()

	if err := engine.Append(urls...); err != nil {
		return errmsg.Wrap(errmsg.OpQueueAppend, "", err)
	}
	if err := engine.Play(0); err != nil {
		return errmsg.Wrap(errmsg.OpPlaybackStart, "", err)
	}

	return view.run(ctx, cmd.OutOrStdout(), engine)
}

// playView redraws the status line until the queue is exhausted.
type playView struct {
	mu     sync.Mutex
	cached float64
}

func (v *playView) setCached(ratio float64) {
	v.mu.Lock()
	v.cached = ratio
	v.mu.Unlock()
}

func (v *playView) state(svc playback.Service) playerbar.State {
	v.mu.Lock()
	cached := v.cached
	v.mu.Unlock()
	return playerbar.NewState(svc, cached)
}

func (v *playView) run(ctx context.Context, out io.Writer, svc playback.Service) error {
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	draw := func() playerbar.State {
		s := v.state(svc)
		fmt.Fprintf(out, "\r\033[K%s", playerbar.Render(s, lineWidth))
		return s
	}
	defer fmt.Fprintln(out)

	for {
		select {
		case <-ctx.Done():
			draw()
			return nil
		case <-ticker.C:
			if s := draw(); queueDone(s) {
				return nil
			}
		}
	}
}

// queueDone reports whether the last item reached a terminal status.
func queueDone(s playerbar.State) bool {
	return s.Status.Terminal() && s.Index == s.Total
}
