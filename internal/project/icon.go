package project

import (
	"os"
	"path/filepath"
	"sort"
)

// wellKnownIcons are checked in order before falling back to directory scans.
var wellKnownIcons = []string{
	filepath.Join("android", "app", "src", "main", "res", "mipmap-hdpi", "ic_launcher.png"),
	filepath.Join("android", "app", "src", "main", "res", "mipmap-mdpi", "ic_launcher.png"),
	filepath.Join("android", "app", "src", "main", "res", "mipmap-xhdpi", "ic_launcher.png"),
	filepath.Join("android", "app", "src", "main", "res", "mipmap-xxhdpi", "ic_launcher.png"),
	filepath.Join("android", "app", "src", "main", "res", "mipmap-xxxhdpi", "ic_launcher.png"),
	filepath.Join("android", "app", "src", "main", "res", "drawable", "ic_launcher.png"),
	filepath.Join("android", "app", "src", "main", "res", "mipmap", "ic_launcher.png"),
	filepath.Join("ios", "Runner", "Assets.xcassets", "AppIcon.appiconset"),
	filepath.Join("web", "icons", "icon-512.png"),
	filepath.Join("web", "icons", "icon-192.png"),
	filepath.Join("web", "favicon.png"),
	filepath.Join("assets", "icon", "icon.png"),
	filepath.Join("assets", "icon", "app_icon.png"),
	filepath.Join("assets", "icons", "icon.png"),
	filepath.Join("assets", "icons", "app_icon.png"),
}

// FindIcon locates an app icon for the project at root. It checks the
// conventional Android, iOS, web and asset locations and returns the
// first match, or "" when the project has no discoverable icon.
func FindIcon(root string) string {
	if _, err := os.Stat(root); err != nil {
		return ""
	}

	for _, rel := range wellKnownIcons {
		p := filepath.Join(root, rel)
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			return p
		}
		// iOS appiconset: pick the largest PNG inside.
		if icon := largestPNG(p); icon != "" {
			return icon
		}
	}

	// Any mipmap density directory with a launcher icon.
	res := filepath.Join(root, "android", "app", "src", "main", "res")
	if entries, err := os.ReadDir(res); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if ok, _ := filepath.Match("mipmap-*", e.Name()); !ok {
				continue
			}
			p := filepath.Join(res, e.Name(), "ic_launcher.png")
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	for _, dir := range []string{
		filepath.Join(root, "web", "icons"),
		filepath.Join(root, "assets", "icon"),
		filepath.Join(root, "assets", "icons"),
	} {
		if icon := largestPNG(dir); icon != "" {
			return icon
		}
	}
	return ""
}

func largestPNG(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	type candidate struct {
		path string
		size int64
	}
	var pngs []candidate
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		pngs = append(pngs, candidate{filepath.Join(dir, e.Name()), info.Size()})
	}
	if len(pngs) == 0 {
		return ""
	}
	sort.Slice(pngs, func(i, j int) bool { return pngs[i].size > pngs[j].size })
	return pngs[0].path
}
