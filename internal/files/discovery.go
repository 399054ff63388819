package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Role is the part an input file plays in a packing run
type Role string

const (
	RoleScan     Role = "scan"
	RoleContents Role = "contents"
	RoleSpecial  Role = "special"
	RoleHandling Role = "handling"
)

// roleKeywords are matched against lower-cased file names. Roles are tried in
// this order so that e.g. "scan_contents.xlsx" is a contents file.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleSpecial, []string{"special", "spesial"}},
	{RoleHandling, []string{"handling", "khusus", "bonus"}},
	{RoleContents, []string{"content", "isi", "item", "detail"}},
	{RoleScan, []string{"scan"}},
}

// Inputs holds the paths selected for each role; optional roles may be empty
type Inputs struct {
	Scan     string
	Contents string
	Special  string
	Handling string
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindInputFiles finds all xlsx and csv files in the specified directory,
// oldest first
func (d *Discovery) FindInputFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// lock files left behind by spreadsheet editors
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if _, err := DetectFormat(name); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// ClassifyFile returns the role a file name suggests, if any
func ClassifyFile(name string) (Role, bool) {
	lower := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, rk := range roleKeywords {
		for _, kw := range rk.keywords {
			if strings.Contains(lower, kw) {
				return rk.role, true
			}
		}
	}
	return "", false
}

// DiscoverInputs picks the most recent file for each role in dir. The scan
// and contents files are required.
func (d *Discovery) DiscoverInputs(dir string) (Inputs, error) {
	files, err := d.FindInputFiles(dir)
	if err != nil {
		return Inputs{}, err
	}

	byRole := make(map[Role][]FileInfo)
	for _, f := range files {
		if role, ok := ClassifyFile(f.Name); ok {
			byRole[role] = append(byRole[role], f)
		}
	}

	var in Inputs
	if latest, ok := GetLatestFile(byRole[RoleScan]); ok {
		in.Scan = latest.Path
	}
	if latest, ok := GetLatestFile(byRole[RoleContents]); ok {
		in.Contents = latest.Path
	}
	if latest, ok := GetLatestFile(byRole[RoleSpecial]); ok {
		in.Special = latest.Path
	}
	if latest, ok := GetLatestFile(byRole[RoleHandling]); ok {
		in.Handling = latest.Path
	}

	if in.Scan == "" {
		return in, fmt.Errorf("no scan file found in %s", d.resolve(dir))
	}
	if in.Contents == "" {
		return in, fmt.Errorf("no contents file found in %s", d.resolve(dir))
	}
	return in, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
