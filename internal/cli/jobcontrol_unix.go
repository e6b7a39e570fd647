//go:build unix

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/llehouerou/wavecast/internal/lifecycle"
)

// watchJobControl maps terminal suspend and resume to background and
// foreground. SIGTSTP is caught, so the process stops itself with SIGSTOP
// once the engine has been told.
func watchJobControl(sys *lifecycle.System) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTSTP, syscall.SIGCONT)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-ch:
				switch sig {
				case syscall.SIGTSTP:
					sys.EnterBackground()
					_ = syscall.Kill(os.Getpid(), syscall.SIGSTOP)
				case syscall.SIGCONT:
					sys.EnterForeground()
				}
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
