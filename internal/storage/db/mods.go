package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mpm/internal/domain"

	"github.com/google/uuid"
)

// SaveLibraryItem inserts a mod record. Records without a ModpackID are library
// items waiting to be attached. An empty ID is filled with a new UUID.
func (d *DB) SaveLibraryItem(ctx context.Context, mod *domain.Mod) (err error) {
	if mod.ID == "" {
		mod.ID = uuid.NewString()
	}
	if mod.ContentType == "" {
		mod.ContentType = domain.ContentMod
	}
	if mod.AddedAt.IsZero() {
		mod.AddedAt = time.Now().UTC()
	}

	var modpackID *string
	if mod.ModpackID != "" {
		modpackID = &mod.ModpackID
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mods (id, modpack_id, name, content_type, source, project_id, file_id, enabled, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, mod.ID, modpackID, mod.Name, string(mod.ContentType), mod.Source, mod.ProjectID, mod.FileID, mod.Enabled, mod.AddedAt)
	if err != nil {
		return fmt.Errorf("saving mod: %w", err)
	}

	for _, catID := range mod.CategoryIDs {
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO mod_categories (mod_id, category_id) VALUES (?, ?)`, mod.ID, catID); err != nil {
			return fmt.Errorf("saving mod category: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing mod: %w", err)
	}
	return nil
}

const modColumns = `id, modpack_id, name, content_type, source, project_id, file_id, enabled, added_at`

func scanMod(row rowScanner) (domain.Mod, error) {
	var mod domain.Mod
	var modpackID sql.NullString
	var contentType string
	err := row.Scan(&mod.ID, &modpackID, &mod.Name, &contentType, &mod.Source,
		&mod.ProjectID, &mod.FileID, &mod.Enabled, &mod.AddedAt)
	mod.ModpackID = modpackID.String
	mod.ContentType = domain.ContentType(contentType)
	return mod, err
}

// ListMods returns the mods of a modpack in the order they were added
func (d *DB) ListMods(ctx context.Context, modpackID string) ([]domain.Mod, error) {
	if _, err := d.GetModpack(ctx, modpackID); err != nil {
		return nil, err
	}

	rows, err := d.QueryContext(ctx, `
		SELECT `+modColumns+`
		FROM mods
		WHERE modpack_id = ?
		ORDER BY rowid ASC
	`, modpackID)
	if err != nil {
		return nil, fmt.Errorf("querying mods: %w", err)
	}

	var mods []domain.Mod
	for rows.Next() {
		mod, err := scanMod(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning mod: %w", err)
		}
		mods = append(mods, mod)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := d.loadCategories(ctx, modpackID, mods); err != nil {
		return nil, err
	}
	return mods, nil
}

// loadCategories fills CategoryIDs for the given mods of one modpack
func (d *DB) loadCategories(ctx context.Context, modpackID string, mods []domain.Mod) error {
	if len(mods) == 0 {
		return nil
	}

	index := make(map[string]int, len(mods))
	for i, m := range mods {
		index[m.ID] = i
	}

	rows, err := d.QueryContext(ctx, `
		SELECT c.mod_id, c.category_id
		FROM mod_categories c
		JOIN mods m ON m.id = c.mod_id
		WHERE m.modpack_id = ?
		ORDER BY c.category_id ASC
	`, modpackID)
	if err != nil {
		return fmt.Errorf("querying mod categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var modID string
		var catID int
		if err := rows.Scan(&modID, &catID); err != nil {
			return fmt.Errorf("scanning mod category: %w", err)
		}
		if i, ok := index[modID]; ok {
			mods[i].CategoryIDs = append(mods[i].CategoryIDs, catID)
		}
	}
	return rows.Err()
}

// GetMod retrieves a single mod record
func (d *DB) GetMod(ctx context.Context, id string) (*domain.Mod, error) {
	row := d.QueryRowContext(ctx, `SELECT `+modColumns+` FROM mods WHERE id = ?`, id)
	mod, err := scanMod(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrModNotFound
		}
		return nil, fmt.Errorf("querying mod: %w", err)
	}
	return &mod, nil
}

// AddModToModpack attaches a library item to a modpack.
// A mod belongs to one modpack; attaching a mod owned by another pack fails.
func (d *DB) AddModToModpack(ctx context.Context, modpackID, modID string) error {
	if err := d.writableModpack(ctx, modpackID); err != nil {
		return err
	}

	result, err := d.ExecContext(ctx, `
		UPDATE mods SET modpack_id = ?
		WHERE id = ? AND (modpack_id IS NULL OR modpack_id = ?)
	`, modpackID, modID, modpackID)
	if err != nil {
		return fmt.Errorf("adding mod to modpack: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		mod, err := d.GetMod(ctx, modID)
		if err != nil {
			return err
		}
		return fmt.Errorf("mod %s already belongs to modpack %s", mod.Name, mod.ModpackID)
	}
	return nil
}

// RemoveModFromModpack deletes a mod record from a modpack
func (d *DB) RemoveModFromModpack(ctx context.Context, modpackID, modID string) error {
	if err := d.writableModpack(ctx, modpackID); err != nil {
		return err
	}

	result, err := d.ExecContext(ctx, `DELETE FROM mods WHERE id = ? AND modpack_id = ?`, modID, modpackID)
	if err != nil {
		return fmt.Errorf("removing mod: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrModNotFound
	}
	return nil
}

// SetModsEnabled enables the listed mods of a modpack and disables the rest
func (d *DB) SetModsEnabled(ctx context.Context, modpackID string, enabledIDs []string) (err error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE mods SET enabled = 0 WHERE modpack_id = ?`, modpackID); err != nil {
		return fmt.Errorf("disabling mods: %w", err)
	}

	if len(enabledIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(enabledIDs)), ",")
		args := make([]any, 0, len(enabledIDs)+1)
		args = append(args, modpackID)
		for _, id := range enabledIDs {
			args = append(args, id)
		}
		query := `UPDATE mods SET enabled = 1 WHERE modpack_id = ? AND id IN (` + placeholders + `)`
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("enabling mods: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing mod state: %w", err)
	}
	return nil
}
