package db

import "fmt"

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*DB) error{
		migrateV1,
		migrateV2,
		migrateV3,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE modpacks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			minecraft_version TEXT NOT NULL,
			loader TEXT NOT NULL,
			description TEXT,
			remote_source_url TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE mods (
			id TEXT PRIMARY KEY,
			modpack_id TEXT REFERENCES modpacks(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			content_type TEXT NOT NULL DEFAULT 'mod',
			source TEXT NOT NULL,
			project_id INTEGER DEFAULT 0,
			file_id INTEGER DEFAULT 0,
			enabled INTEGER DEFAULT 1,
			added_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX idx_mods_modpack ON mods(modpack_id)`,
	}

	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:30], err)
		}
	}

	return nil
}

func migrateV2(d *DB) error {
	// Catalog categories per mod, used for grouping and recommendations
	_, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS mod_categories (
			mod_id TEXT NOT NULL REFERENCES mods(id) ON DELETE CASCADE,
			category_id INTEGER NOT NULL,
			PRIMARY KEY(mod_id, category_id)
		)
	`)
	return err
}

func migrateV3(d *DB) error {
	// Catalog API keys saved with `mpm auth login`
	_, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS auth_tokens (
			source_id TEXT PRIMARY KEY,
			token_data TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}
