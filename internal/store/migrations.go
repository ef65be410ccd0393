package store

import "fmt"

func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateSettings,
		migrationCreateProjects,
		migrationCreateSDKs,
		migrationCreateTemplates,
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

const migrationCreateSettings = `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

const migrationCreateProjects = `
CREATE TABLE IF NOT EXISTS projects (
    path TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    package_name TEXT NOT NULL DEFAULT '',
    sdk_version_label TEXT NOT NULL DEFAULT '',
    sdk_constraint TEXT NOT NULL DEFAULT '',
    dependencies TEXT NOT NULL DEFAULT '{}',
    icon_path TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    last_modified TEXT,
    last_accessed TEXT NOT NULL DEFAULT (datetime('now')),
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_projects_last_accessed ON projects(last_accessed DESC);
`

const migrationCreateSDKs = `
CREATE TABLE IF NOT EXISTS sdks (
    path TEXT PRIMARY KEY,
    version TEXT NOT NULL DEFAULT '',
    channel TEXT NOT NULL DEFAULT 'stable',
    is_default INTEGER NOT NULL DEFAULT 0,
    is_managed INTEGER NOT NULL DEFAULT 0,
    installed_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_sdks_is_default ON sdks(is_default);
`

const migrationCreateTemplates = `
CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    version TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    enabled INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
