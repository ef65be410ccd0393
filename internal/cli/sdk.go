package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"flustudio/internal/download"
	"flustudio/internal/sdk"
)

var (
	releasesNoCache bool
	releasesChannel string
	releasesLimit   int
	installChannel  string
	useKeepPath     bool
)

func newSDKCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sdk",
		Short: "Manage Flutter SDK installations",
	}
	cmd.AddCommand(newSDKListCmd())
	cmd.AddCommand(newSDKReleasesCmd())
	cmd.AddCommand(newSDKInstallCmd())
	cmd.AddCommand(newSDKUseCmd())
	cmd.AddCommand(newSDKAddCmd())
	cmd.AddCommand(newSDKRemoveCmd())
	return cmd
}

func newSDKListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed SDKs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp("sdk")
			if err != nil {
				return err
			}
			defer a.Close()

			sdks, err := a.registry().ListInstalled(cmd.Context())
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd, sdks)
			}
			printSDKTable(cmd, sdks)
			return nil
		},
	}
}

func newSDKReleasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List installable SDK versions, newest first",
		RunE:  runSDKReleases,
	}
	cmd.Flags().BoolVar(&releasesNoCache, "no-cache", false, "Bypass the cached catalog")
	cmd.Flags().StringVar(&releasesChannel, "channel", "", "Only show one channel (stable, beta, dev)")
	cmd.Flags().IntVar(&releasesLimit, "limit", 20, "Maximum versions to show (0 for all)")
	return cmd
}

func runSDKReleases(cmd *cobra.Command, _ []string) error {
	a, err := openApp("sdk")
	if err != nil {
		return err
	}
	defer a.Close()

	sw := newStatusLine(cmd, "Fetching version catalog")
	releases, err := a.catalog().Versions(cmd.Context(), !releasesNoCache)
	stopStatusLine(sw)
	if err != nil {
		return err
	}

	if releasesChannel != "" {
		ch := strings.ToLower(releasesChannel)
		if !sdk.KnownChannel(ch) {
			return fmt.Errorf("unknown channel %q", releasesChannel)
		}
		filtered := releases[:0]
		for _, r := range releases {
			if r.Channel == ch {
				filtered = append(filtered, r)
			}
		}
		releases = filtered
	}
	if releasesLimit > 0 && len(releases) > releasesLimit {
		releases = releases[:releasesLimit]
	}

	if outputJSON {
		return printJSON(cmd, releases)
	}
	if len(releases) == 0 {
		cmd.Println("(no versions)")
		return nil
	}
	for _, r := range releases {
		date := r.ReleaseDate
		if len(date) > 10 {
			date = date[:10]
		}
		cmd.Printf("%-20s %-8s %s\n", r.Version, r.Channel, dash(date))
	}
	return nil
}

func newSDKInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <version>",
		Short: "Download and install an SDK version",
		Args:  cobra.ExactArgs(1),
		RunE:  runSDKInstall,
	}
	cmd.Flags().StringVar(&installChannel, "channel", "", "Channel to install from when the version is not in the catalog")
	return cmd
}

func runSDKInstall(cmd *cobra.Command, args []string) error {
	a, err := openApp("sdk")
	if err != nil {
		return err
	}
	defer a.Close()

	version := strings.TrimPrefix(args[0], "v")
	catalog := a.catalog()

	sw := newStatusLine(cmd, "Resolving "+version)

	release, err := resolveRelease(cmd, catalog, version)
	if err != nil {
		stopStatusLine(sw)
		return err
	}
	if release.DownloadURL == "" {
		stopStatusLine(sw)
		return fmt.Errorf("no download available for %s", version)
	}

	client := download.NewClient()
	if ok, err := client.Head(cmd.Context(), release.DownloadURL); err == nil && !ok {
		stopStatusLine(sw)
		return fmt.Errorf("sdk version %s not found at %s", version, release.DownloadURL)
	}

	archive := filepath.Join(a.Paths.DownloadDir, filepath.Base(release.DownloadURL))
	progress := func(written, total int64) {
		if sw != nil && total > 0 {
			sw.Update(fmt.Sprintf("Downloading %s: %d%%", version, written*100/total))
		}
	}
	if err := client.Fetch(cmd.Context(), release.DownloadURL, archive, progress); err != nil {
		stopStatusLine(sw)
		return fmt.Errorf("download sdk: %w", err)
	}

	installer := sdk.Installer{BaseDir: a.Paths.SDKsDir, Logger: a.Logger}
	dir, err := installer.Install(archive, version, func(done, total int) {
		if sw != nil {
			sw.Update(fmt.Sprintf("Extracting %s: %d/%d", version, done, total))
		}
	})
	stopStatusLine(sw)
	if err != nil {
		return err
	}

	installed, err := a.registry().RegisterInstall(dir, version, release.Channel)
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(cmd, installed)
	}
	cmd.Printf("installed %s at %s\n", version, dir)
	return nil
}

// resolveRelease finds the catalog entry for version, synthesizing one
// from the conventional bucket layout when the catalog has no match.
func resolveRelease(cmd *cobra.Command, catalog *sdk.Catalog, version string) (sdk.Release, error) {
	releases, err := catalog.Versions(cmd.Context(), true)
	if err != nil {
		return sdk.Release{}, err
	}
	for _, r := range releases {
		if r.Version == version {
			return r, nil
		}
	}
	channel := sdk.NormalizeChannel(installChannel, version)
	return catalog.Synthesize(version, channel), nil
}

func newSDKUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <path|version>",
		Short: "Make an SDK the default and point PATH at it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("sdk")
			if err != nil {
				return err
			}
			defer a.Close()

			reg := a.registry()
			target, err := resolveSDKArg(cmd, reg, args[0])
			if err != nil {
				return err
			}
			if err := reg.Use(target, !useKeepPath); err != nil {
				return err
			}
			cmd.Printf("default sdk: %s\n", target)
			if !useKeepPath {
				cmd.Println("restart your shell for PATH changes to take effect")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&useKeepPath, "keep-path", false, "Switch the default without editing PATH")
	return cmd
}

// resolveSDKArg accepts either an SDK directory or an installed version
// string.
func resolveSDKArg(cmd *cobra.Command, reg *sdk.Registry, arg string) (string, error) {
	if sdk.Validate(arg) {
		return arg, nil
	}
	installed, err := reg.ListInstalled(cmd.Context())
	if err != nil {
		return "", err
	}
	version := strings.TrimPrefix(arg, "v")
	for _, s := range installed {
		if s.Version == version {
			return s.Path, nil
		}
	}
	return "", fmt.Errorf("no installed sdk matches %q", arg)
}

func newSDKAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Register an existing SDK directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("sdk")
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.registry().Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd, s)
			}
			cmd.Printf("added %s (%s)\n", s.Path, dash(s.Version))
			return nil
		},
	}
}

func newSDKRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path|version>",
		Short: "Remove an SDK (managed installs are deleted from disk)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("sdk")
			if err != nil {
				return err
			}
			defer a.Close()

			reg := a.registry()
			target, err := resolveSDKArg(cmd, reg, args[0])
			if err != nil {
				return err
			}
			if err := reg.Remove(target); err != nil {
				return err
			}
			cmd.Printf("removed %s\n", target)
			return nil
		},
	}
}
