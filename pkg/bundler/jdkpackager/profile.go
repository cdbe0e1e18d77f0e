package jdkpackager

import (
	"os"

	"github.com/provide-io/distbundle/pkg/fsutil"
	"github.com/provide-io/distbundle/pkg/platform"
	"github.com/provide-io/distbundle/pkg/spi"
)

// ID is the bundler identifier matched against the flavor filter.
const ID = "oracle-native-launcher"

// profile holds what differs between the platforms the bundler serves.
type profile struct {
	target platform.Target
	// subdir of com/oracle/tools/packager holding the platform binaries
	subdir       string
	launcher     string
	libraries    string
	launcherMode os.FileMode
	stampable    bool
}

var profiles = []profile{
	{
		target:    platform.Target{OS: platform.Windows, Arch: platform.X64},
		subdir:    "windows",
		launcher:  "WinLauncher.exe",
		libraries: platform.SharedLibraryPattern(platform.Windows),
		stampable: true,
	},
	{
		target:       platform.Target{OS: platform.Linux, Arch: platform.X64},
		subdir:       "linux",
		launcher:     "JavaAppLauncher",
		libraries:    platform.SharedLibraryPattern(platform.Linux),
		launcherMode: fsutil.ExecutablePerms,
	},
}

func init() {
	for _, p := range profiles {
		p := p
		spi.Register(spi.Key(ID, p.target), func() spi.NativeAppBundler {
			return &Bundler{profile: p}
		})
	}
}
