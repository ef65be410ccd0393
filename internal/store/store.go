// Package store persists projects, SDKs, templates, and settings in a local
// SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Project is a discovered Flutter project.
type Project struct {
	Path            string            `json:"path"`
	Name            string            `json:"name"`
	PackageName     string            `json:"package_name,omitempty"`
	SDKVersionLabel string            `json:"sdk_version_label,omitempty"`
	SDKConstraint   string            `json:"sdk_constraint,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	IconPath        string            `json:"icon_path,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	LastModified    time.Time         `json:"last_modified,omitzero"`
	LastAccessed    time.Time         `json:"last_accessed,omitzero"`
}

// SDK is a registered Flutter SDK installation.
type SDK struct {
	Path        string    `json:"path"`
	Version     string    `json:"version,omitempty"`
	Channel     string    `json:"channel"`
	IsDefault   bool      `json:"is_default"`
	IsManaged   bool      `json:"is_managed"`
	InstalledAt time.Time `json:"installed_at,omitzero"`
}

// Template describes an installable scaffold generator.
type Template struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
	Author  string `json:"author,omitempty"`
	Enabled bool   `json:"enabled"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB

	// ValidateProject, when set, is consulted by ListProjects: entries whose
	// backing directory fails validation are purged instead of returned.
	ValidateProject func(path string) bool
}

const timeFormat = "2006-01-02 15:04:05"

// Open opens or creates the database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- settings ---

// GetSetting returns the stored value for key, or "" with ErrNotFound.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a settings key.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a settings key.
func (s *Store) DeleteSetting(key string) error {
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	return nil
}

// --- projects ---

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidTag reports whether a tag is alphanumeric/underscore/hyphen.
func ValidTag(tag string) bool {
	return tagPattern.MatchString(tag)
}

// UpsertProject inserts or replaces a project keyed by path. Invalid tags are
// rejected.
func (s *Store) UpsertProject(p Project) error {
	for _, tag := range p.Tags {
		if !ValidTag(tag) {
			return fmt.Errorf("invalid tag %q", tag)
		}
	}

	deps, err := json.Marshal(nonNilDeps(p.Dependencies))
	if err != nil {
		return fmt.Errorf("marshal dependencies: %w", err)
	}
	tags, err := json.Marshal(nonNilTags(p.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	lastAccessed := p.LastAccessed
	if lastAccessed.IsZero() {
		lastAccessed = time.Now().UTC()
	}

	_, err = s.db.Exec(`
		INSERT INTO projects
			(path, name, package_name, sdk_version_label, sdk_constraint, dependencies, icon_path, tags, last_modified, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			package_name = excluded.package_name,
			sdk_version_label = excluded.sdk_version_label,
			sdk_constraint = excluded.sdk_constraint,
			dependencies = excluded.dependencies,
			icon_path = excluded.icon_path,
			tags = excluded.tags,
			last_modified = excluded.last_modified,
			last_accessed = excluded.last_accessed`,
		p.Path, p.Name, p.PackageName, p.SDKVersionLabel, p.SDKConstraint,
		string(deps), p.IconPath, string(tags),
		formatTime(p.LastModified), lastAccessed.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("upsert project %s: %w", p.Path, err)
	}
	return nil
}

// GetProject returns the project stored under path.
func (s *Store) GetProject(path string) (Project, error) {
	row := s.db.QueryRow(projectColumns+" WHERE path = ?", path)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("get project %s: %w", path, err)
	}
	return p, nil
}

const projectColumns = `SELECT path, name, package_name, sdk_version_label, sdk_constraint,
	dependencies, icon_path, tags, last_modified, last_accessed FROM projects`

// ListProjects returns projects ordered by last access, newest first. When a
// validator is configured, stale entries are skipped and opportunistically
// deleted. limit <= 0 means no limit.
func (s *Store) ListProjects(limit int) ([]Project, error) {
	// No SQL LIMIT: stale entries are filtered while scanning, so the
	// query streams until the page fills or the table runs out.
	rows, err := s.db.Query(projectColumns + " ORDER BY last_accessed DESC")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	var stale []string
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if s.ValidateProject != nil && !s.ValidateProject(p.Path) {
			stale = append(stale, p.Path)
			continue
		}
		projects = append(projects, p)
		if limit > 0 && len(projects) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	for _, path := range stale {
		_ = s.DeleteProject(path)
	}
	return projects, nil
}

// TouchProject updates a project's last access time.
func (s *Store) TouchProject(path string) error {
	res, err := s.db.Exec("UPDATE projects SET last_accessed = datetime('now') WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("touch project %s: %w", path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes a project record.
func (s *Store) DeleteProject(path string) error {
	if _, err := s.db.Exec("DELETE FROM projects WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete project %s: %w", path, err)
	}
	return nil
}

// SetProjectTags replaces a project's tag set.
func (s *Store) SetProjectTags(path string, tags []string) error {
	for _, tag := range tags {
		if !ValidTag(tag) {
			return fmt.Errorf("invalid tag %q", tag)
		}
	}
	data, err := json.Marshal(nonNilTags(tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	res, err := s.db.Exec("UPDATE projects SET tags = ? WHERE path = ?", string(data), path)
	if err != nil {
		return fmt.Errorf("set tags for %s: %w", path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProjectsByTag returns projects carrying the tag, most recently accessed
// first.
func (s *Store) ListProjectsByTag(tag string) ([]Project, error) {
	all, err := s.ListProjects(0)
	if err != nil {
		return nil, err
	}
	var matched []Project
	for _, p := range all {
		for _, t := range p.Tags {
			if t == tag {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched, nil
}

// AllTags returns the distinct tag set across every project, sorted.
func (s *Store) AllTags() ([]string, error) {
	rows, err := s.db.Query("SELECT tags FROM projects WHERE tags != '[]'")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	seen := map[string]struct{}{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan tags: %w", err)
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			continue
		}
		for _, t := range tags {
			seen[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// --- sdks ---

// UpsertSDK inserts or replaces an SDK keyed by path. Re-registering an
// existing path never touches its default flag; that state belongs to
// SetDefaultSDK alone.
func (s *Store) UpsertSDK(sdk SDK) error {
	_, err := s.db.Exec(`
		INSERT INTO sdks (path, version, channel, is_default, is_managed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			version = excluded.version,
			channel = excluded.channel,
			is_managed = excluded.is_managed`,
		sdk.Path, sdk.Version, sdk.Channel, boolInt(sdk.IsDefault), boolInt(sdk.IsManaged),
	)
	if err != nil {
		return fmt.Errorf("upsert sdk %s: %w", sdk.Path, err)
	}
	return nil
}

// ListSDKs returns all registered SDKs, default first, then newest install.
func (s *Store) ListSDKs() ([]SDK, error) {
	rows, err := s.db.Query(`SELECT path, version, channel, is_default, is_managed, installed_at
		FROM sdks ORDER BY is_default DESC, installed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sdks: %w", err)
	}
	defer rows.Close()

	var sdks []SDK
	for rows.Next() {
		var sdk SDK
		var isDefault, isManaged int
		var installedAt string
		if err := rows.Scan(&sdk.Path, &sdk.Version, &sdk.Channel, &isDefault, &isManaged, &installedAt); err != nil {
			return nil, fmt.Errorf("scan sdk: %w", err)
		}
		sdk.IsDefault = isDefault != 0
		sdk.IsManaged = isManaged != 0
		sdk.InstalledAt, _ = time.Parse(timeFormat, installedAt)
		sdks = append(sdks, sdk)
	}
	return sdks, rows.Err()
}

// GetSDK returns the SDK registered at path.
func (s *Store) GetSDK(path string) (SDK, error) {
	var sdk SDK
	var isDefault, isManaged int
	var installedAt string
	err := s.db.QueryRow(`SELECT path, version, channel, is_default, is_managed, installed_at
		FROM sdks WHERE path = ?`, path).
		Scan(&sdk.Path, &sdk.Version, &sdk.Channel, &isDefault, &isManaged, &installedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SDK{}, ErrNotFound
	}
	if err != nil {
		return SDK{}, fmt.Errorf("get sdk %s: %w", path, err)
	}
	sdk.IsDefault = isDefault != 0
	sdk.IsManaged = isManaged != 0
	sdk.InstalledAt, _ = time.Parse(timeFormat, installedAt)
	return sdk, nil
}

// DefaultSDK returns the single default SDK, or ErrNotFound.
func (s *Store) DefaultSDK() (SDK, error) {
	var sdk SDK
	var isManaged int
	err := s.db.QueryRow(`SELECT path, version, channel, is_managed FROM sdks
		WHERE is_default = 1 LIMIT 1`).
		Scan(&sdk.Path, &sdk.Version, &sdk.Channel, &isManaged)
	if errors.Is(err, sql.ErrNoRows) {
		return SDK{}, ErrNotFound
	}
	if err != nil {
		return SDK{}, fmt.Errorf("get default sdk: %w", err)
	}
	sdk.IsDefault = true
	sdk.IsManaged = isManaged != 0
	return sdk, nil
}

// SetDefaultSDK atomically makes path the only default SDK. The clear and
// the set happen in one transaction so no intermediate state with zero or
// multiple defaults is observable.
func (s *Store) SetDefaultSDK(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin set default: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE sdks SET is_default = 0 WHERE is_default = 1"); err != nil {
		return fmt.Errorf("clear default sdk: %w", err)
	}
	res, err := tx.Exec("UPDATE sdks SET is_default = 1 WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("set default sdk: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set default: %w", err)
	}
	return nil
}

// DeleteSDK removes an SDK record.
func (s *Store) DeleteSDK(path string) error {
	if _, err := s.db.Exec("DELETE FROM sdks WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete sdk %s: %w", path, err)
	}
	return nil
}

// --- templates ---

// UpsertTemplate inserts or replaces a template record.
func (s *Store) UpsertTemplate(t Template) error {
	_, err := s.db.Exec(`
		INSERT INTO templates (id, version, author, enabled)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			author = excluded.author,
			enabled = excluded.enabled`,
		t.ID, t.Version, t.Author, boolInt(t.Enabled),
	)
	if err != nil {
		return fmt.Errorf("upsert template %s: %w", t.ID, err)
	}
	return nil
}

// ListTemplates returns all template records sorted by id.
func (s *Store) ListTemplates() ([]Template, error) {
	rows, err := s.db.Query("SELECT id, version, author, enabled FROM templates ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var t Template
		var enabled int
		if err := rows.Scan(&t.ID, &t.Version, &t.Author, &enabled); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Enabled = enabled != 0
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a template record.
func (s *Store) DeleteTemplate(id string) error {
	if _, err := s.db.Exec("DELETE FROM templates WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var deps, tags string
	var lastModified sql.NullString
	var lastAccessed string
	err := row.Scan(&p.Path, &p.Name, &p.PackageName, &p.SDKVersionLabel, &p.SDKConstraint,
		&deps, &p.IconPath, &tags, &lastModified, &lastAccessed)
	if err != nil {
		return Project{}, err
	}
	if deps != "" {
		_ = json.Unmarshal([]byte(deps), &p.Dependencies)
	}
	if tags != "" {
		_ = json.Unmarshal([]byte(tags), &p.Tags)
	}
	if lastModified.Valid && lastModified.String != "" {
		p.LastModified, _ = time.Parse(timeFormat, lastModified.String)
	}
	p.LastAccessed, _ = time.Parse(timeFormat, lastAccessed)
	return p, nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNilDeps(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilTags(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}
