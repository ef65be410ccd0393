// Package sdk manages Flutter SDK installations: listing available
// versions, downloading and unpacking archives, tracking installed copies,
// and switching the default toolchain.
package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"time"

	"flustudio/internal/logx"
)

// Endpoint defaults. Tests point these at an httptest server.
const (
	defaultFVMReleasesURL    = "https://raw.githubusercontent.com/leoafarias/fvm/main/releases_%s.json"
	defaultGitHubTagsURL     = "https://api.github.com/repos/flutter/flutter/tags"
	defaultGitHubReleasesURL = "https://api.github.com/repos/flutter/flutter/releases"
	defaultStorageBaseURL    = "https://storage.googleapis.com/flutter_infra_release/releases"
)

const (
	catalogTTL     = 24 * time.Hour
	tagsPerPage    = 100
	requestTimeout = 15 * time.Second
)

// Release describes one installable SDK version.
type Release struct {
	Version     string `json:"version"`
	Channel     string `json:"channel"`
	ReleaseDate string `json:"release_date,omitempty"`
	Hash        string `json:"hash,omitempty"`
	Archive     string `json:"archive,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Name        string `json:"name,omitempty"`
	Prerelease  bool   `json:"prerelease"`
}

// Catalog fetches the list of available SDK versions, caching results on
// disk. Three sources are tried in order: the FVM per-platform release
// index, the flutter repository's tags, and finally its GitHub releases.
type Catalog struct {
	// CacheFile holds the last fetched version list. Empty disables caching.
	CacheFile string

	HTTP   *http.Client
	Logger logx.Logger

	// Endpoint overrides; zero values use the public services.
	FVMReleasesURL    string // printf template taking the platform name
	GitHubTagsURL     string
	GitHubReleasesURL string
	StorageBaseURL    string

	// Platform overrides runtime detection ("windows", "macos", "linux").
	Platform string
}

type catalogFile struct {
	CachedAt time.Time `json:"cached_at"`
	Versions []Release `json:"versions"`
}

func (c *Catalog) logger() logx.Logger {
	if c.Logger == nil {
		return logx.Noop{}
	}
	return c.Logger
}

func (c *Catalog) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: requestTimeout}
}

func (c *Catalog) platform() string {
	if c.Platform != "" {
		return c.Platform
	}
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	default:
		return "linux"
	}
}

func (c *Catalog) storageBase() string {
	if c.StorageBaseURL != "" {
		return c.StorageBaseURL
	}
	return defaultStorageBaseURL
}

// Versions returns the catalog, newest first. With useCache the on-disk
// copy is served as long as it is younger than 24 hours. Fetched results
// are sorted by release date then version and written back to the cache.
func (c *Catalog) Versions(ctx context.Context, useCache bool) ([]Release, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if useCache {
		if cached, ok := c.cachedVersions(); ok {
			return cached, nil
		}
	}

	releases, err := c.fetchFVMIndex(ctx)
	if err != nil {
		c.logger().Printf("fvm index unavailable: %v", err)
		releases, err = c.fetchGitHubTags(ctx)
	}
	if err != nil {
		c.logger().Printf("tag listing unavailable: %v", err)
		releases, err = c.fetchGitHubReleases(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch version catalog: %w", err)
	}

	sortReleases(releases)
	c.saveCache(releases)
	return releases, nil
}

// cachedVersions loads the cache file when it is fresh. Freshness is judged
// by file modification time, so a hand-deleted or touched file behaves
// predictably.
func (c *Catalog) cachedVersions() ([]Release, bool) {
	if c.CacheFile == "" {
		return nil, false
	}
	info, err := os.Stat(c.CacheFile)
	if err != nil || time.Since(info.ModTime()) > catalogTTL {
		return nil, false
	}
	data, err := os.ReadFile(c.CacheFile)
	if err != nil {
		return nil, false
	}
	var cf catalogFile
	if err := json.Unmarshal(data, &cf); err != nil || len(cf.Versions) == 0 {
		return nil, false
	}
	return cf.Versions, true
}

func (c *Catalog) saveCache(releases []Release) {
	if c.CacheFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.CacheFile), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(catalogFile{CachedAt: time.Now().UTC(), Versions: releases}, "", "  ")
	if err != nil {
		return
	}
	tmp := c.CacheFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	if err := os.Rename(tmp, c.CacheFile); err != nil {
		os.Remove(tmp)
	}
}

func (c *Catalog) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flustudio/1.0")

	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// fetchFVMIndex reads the per-platform release index published by FVM,
// which carries channels, dates and archive paths.
func (c *Catalog) fetchFVMIndex(ctx context.Context) ([]Release, error) {
	tmpl := c.FVMReleasesURL
	if tmpl == "" {
		tmpl = defaultFVMReleasesURL
	}
	var index struct {
		Releases []struct {
			Version     string `json:"version"`
			Channel     string `json:"channel"`
			ReleaseDate string `json:"release_date"`
			Hash        string `json:"hash"`
			Archive     string `json:"archive"`
		} `json:"releases"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf(tmpl, c.platform()), &index); err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(index.Releases))
	for _, r := range index.Releases {
		if r.Version == "" {
			continue
		}
		channel := NormalizeChannel(r.Channel, r.Version)
		rel := Release{
			Version:     r.Version,
			Channel:     channel,
			ReleaseDate: r.ReleaseDate,
			Hash:        r.Hash,
			Archive:     r.Archive,
			Tag:         r.Version,
			Name:        fmt.Sprintf("Flutter %s (%s)", r.Version, channel),
			Prerelease:  channel != ChannelStable,
		}
		rel.DownloadURL = c.downloadURL(rel)
		releases = append(releases, rel)
	}
	return releases, nil
}

var tagVersionRe = regexp.MustCompile(`^v?(\d+\.\d+\.\d+(?:[-.][\w.]+)?)`)

// fetchGitHubTags pages through the flutter repository tags. Tags carry no
// dates, so channel comes from version-string inference alone.
func (c *Catalog) fetchGitHubTags(ctx context.Context) ([]Release, error) {
	base := c.GitHubTagsURL
	if base == "" {
		base = defaultGitHubTagsURL
	}

	var releases []Release
	for page := 1; ; page++ {
		var tags []struct {
			Name   string `json:"name"`
			Commit struct {
				SHA string `json:"sha"`
			} `json:"commit"`
		}
		url := fmt.Sprintf("%s?per_page=%d&page=%d", base, tagsPerPage, page)
		if err := c.getJSON(ctx, url, &tags); err != nil {
			if page == 1 {
				return nil, err
			}
			c.logger().Printf("tag page %d: %v", page, err)
			break
		}
		if len(tags) == 0 {
			break
		}

		for _, tag := range tags {
			m := tagVersionRe.FindStringSubmatch(tag.Name)
			if m == nil {
				continue
			}
			version := m[1]
			channel := InferChannel(version)
			hash := tag.Commit.SHA
			if len(hash) > 7 {
				hash = hash[:7]
			}
			rel := Release{
				Version:    version,
				Channel:    channel,
				Hash:       hash,
				Tag:        tag.Name,
				Name:       fmt.Sprintf("Flutter %s (%s)", version, channel),
				Prerelease: channel != ChannelStable,
			}
			rel.DownloadURL = c.downloadURL(rel)
			releases = append(releases, rel)
		}

		if len(tags) < tagsPerPage {
			break
		}
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("no version tags found")
	}
	return releases, nil
}

// fetchGitHubReleases is the last-resort source. It only covers published
// releases and maps prerelease flags onto the beta channel.
func (c *Catalog) fetchGitHubReleases(ctx context.Context) ([]Release, error) {
	url := c.GitHubReleasesURL
	if url == "" {
		url = defaultGitHubReleasesURL
	}
	var ghReleases []struct {
		TagName     string `json:"tag_name"`
		Name        string `json:"name"`
		PublishedAt string `json:"published_at"`
		Prerelease  bool   `json:"prerelease"`
	}
	if err := c.getJSON(ctx, url, &ghReleases); err != nil {
		return nil, err
	}

	var releases []Release
	for _, r := range ghReleases {
		m := tagVersionRe.FindStringSubmatch(r.TagName)
		if m == nil {
			continue
		}
		channel := ChannelStable
		if r.Prerelease {
			channel = ChannelBeta
		}
		name := r.Name
		if name == "" {
			name = r.TagName
		}
		rel := Release{
			Version:     m[1],
			Channel:     channel,
			ReleaseDate: r.PublishedAt,
			Tag:         r.TagName,
			Name:        name,
			Prerelease:  r.Prerelease,
		}
		rel.DownloadURL = c.downloadURL(rel)
		releases = append(releases, rel)
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("no releases found")
	}
	return releases, nil
}

// Synthesize builds a release entry for a version the catalog does not
// list, using the conventional bucket layout for the download URL.
func (c *Catalog) Synthesize(version, channel string) Release {
	rel := Release{
		Version:    version,
		Channel:    channel,
		Tag:        version,
		Name:       fmt.Sprintf("Flutter %s (%s)", version, channel),
		Prerelease: channel != ChannelStable,
	}
	rel.DownloadURL = c.downloadURL(rel)
	return rel
}

// downloadURL resolves the archive location for a release. Index entries
// carry archive paths relative to the storage bucket; everything else gets
// the conventional bucket layout.
func (c *Catalog) downloadURL(r Release) string {
	if r.Archive != "" {
		if len(r.Archive) > 4 && r.Archive[:4] == "http" {
			return r.Archive
		}
		return c.storageBase() + "/" + r.Archive
	}
	platform := c.platform()
	filename := fmt.Sprintf("flutter_%s_x64_%s-%s.zip", platform, r.Version, r.Channel)
	return fmt.Sprintf("%s/%s/%s/%s", c.storageBase(), r.Channel, platform, filename)
}

// sortReleases orders newest first: by release date, breaking ties on the
// numeric version triple. Stable sort keeps source order for full ties.
func sortReleases(releases []Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		if releases[i].ReleaseDate != releases[j].ReleaseDate {
			return releases[i].ReleaseDate > releases[j].ReleaseDate
		}
		return parseSemver(releases[i].Version).compare(parseSemver(releases[j].Version)) > 0
	})
}
