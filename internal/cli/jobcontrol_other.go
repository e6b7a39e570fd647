//go:build !unix

package cli

import "github.com/llehouerou/wavecast/internal/lifecycle"

func watchJobControl(_ *lifecycle.System) func() {
	return func() {}
}
