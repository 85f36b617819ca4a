// Package version loads the build version stamped into the release
// artifact as a version.json file shipped next to the binary.
package version

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

type Info struct {
	Version string `json:"version"`
}

// Load reads version info from the JSON file at path. An empty path falls
// back to version.json in the binary's directory, so the daemon reports the
// right version regardless of the working directory it was launched from.
// A missing or malformed file degrades to 0.0.0 rather than failing startup.
func Load(path string) Info {
	if path == "" {
		path = defaultPath()
	}

	info := Info{Version: "0.0.0"}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("version: %s unreadable, reporting %s: %v", path, info.Version, err)
		return info
	}
	if err := json.Unmarshal(data, &info); err != nil {
		log.Printf("version: %s malformed, reporting 0.0.0: %v", path, err)
		return Info{Version: "0.0.0"}
	}
	if info.Version == "" {
		info.Version = "0.0.0"
	}
	return info
}

func defaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "version.json"
	}
	return filepath.Join(filepath.Dir(exe), "version.json")
}
