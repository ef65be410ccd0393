package launcher

import (
	"context"
	"fmt"
	"strings"

	"flustudio/internal/execx"
)

// Device is one target reported by flutter devices.
type Device struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Devices lists the connected run targets.
func (s *Service) Devices(ctx context.Context) ([]Device, error) {
	res := s.runner().Run(ctx, s.flutter(), []string{"devices"}, execx.RunOptions{})
	if res.ExitCode != 0 {
		s.logger().Printf("flutter devices failed: %s", strings.TrimSpace(res.Output))
		return nil, fmt.Errorf("flutter devices exited with code %d", res.ExitCode)
	}
	return parseDevices(res.Output), nil
}

// parseDevices reads the bullet-separated device table:
// "name • id • platform • version".
func parseDevices(output string) []Device {
	var devices []Device
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "•") {
			continue
		}
		var parts []string
		for _, p := range strings.Split(line, "•") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) < 3 {
			continue
		}
		d := Device{Name: parts[0], ID: parts[1], Type: classifyDevice(line, parts[2])}
		devices = append(devices, d)
	}
	return devices
}

func classifyDevice(line, platform string) string {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "emulator"), strings.Contains(lower, "simulator"):
		return "emulator"
	case strings.Contains(lower, "android"):
		return "android"
	case strings.Contains(lower, "ios"), strings.Contains(lower, "iphone"):
		return "ios"
	case strings.Contains(lower, "chrome"), strings.Contains(lower, "web"):
		return "web"
	case strings.Contains(lower, "windows"), strings.Contains(lower, "linux"), strings.Contains(lower, "macos"):
		return "desktop"
	default:
		return strings.ToLower(platform)
	}
}
