package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mpm/internal/domain"

	"github.com/google/uuid"
)

// CreateModpack inserts a new modpack and returns its generated ID
func (d *DB) CreateModpack(ctx context.Context, spec domain.ModpackSpec) (string, error) {
	id := uuid.NewString()
	version := spec.Version
	if version == "" {
		version = domain.DefaultModpackVersion
	}

	var remote *string
	if spec.RemoteSourceURL != "" {
		remote = &spec.RemoteSourceURL
	}

	_, err := d.ExecContext(ctx, `
		INSERT INTO modpacks (id, name, version, minecraft_version, loader, description, remote_source_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, spec.Name, version, spec.MinecraftVersion, spec.Loader, spec.Description, remote, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("creating modpack: %w", err)
	}
	return id, nil
}

const modpackColumns = `id, name, version, minecraft_version, loader, description, remote_source_url, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModpack(row rowScanner) (*domain.Modpack, error) {
	var mp domain.Modpack
	var description, remote sql.NullString
	if err := row.Scan(&mp.ID, &mp.Name, &mp.Version, &mp.MinecraftVersion, &mp.Loader,
		&description, &remote, &mp.CreatedAt); err != nil {
		return nil, err
	}
	mp.Description = description.String
	mp.RemoteSourceURL = remote.String
	return &mp, nil
}

// GetModpack retrieves a single modpack
func (d *DB) GetModpack(ctx context.Context, id string) (*domain.Modpack, error) {
	row := d.QueryRowContext(ctx, `SELECT `+modpackColumns+` FROM modpacks WHERE id = ?`, id)
	mp, err := scanModpack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrModpackNotFound
		}
		return nil, fmt.Errorf("querying modpack: %w", err)
	}
	return mp, nil
}

// FindModpack looks a modpack up by ID or, failing that, by exact name
func (d *DB) FindModpack(ctx context.Context, idOrName string) (*domain.Modpack, error) {
	mp, err := d.GetModpack(ctx, idOrName)
	if err == nil || !errors.Is(err, domain.ErrModpackNotFound) {
		return mp, err
	}

	row := d.QueryRowContext(ctx, `SELECT `+modpackColumns+` FROM modpacks WHERE name = ? ORDER BY created_at ASC LIMIT 1`, idOrName)
	mp, err = scanModpack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrModpackNotFound
		}
		return nil, fmt.Errorf("querying modpack: %w", err)
	}
	return mp, nil
}

// ListModpacks returns all modpacks, oldest first
func (d *DB) ListModpacks(ctx context.Context) ([]domain.Modpack, error) {
	rows, err := d.QueryContext(ctx, `SELECT `+modpackColumns+` FROM modpacks ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying modpacks: %w", err)
	}
	defer rows.Close()

	var modpacks []domain.Modpack
	for rows.Next() {
		mp, err := scanModpack(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning modpack: %w", err)
		}
		modpacks = append(modpacks, *mp)
	}
	return modpacks, rows.Err()
}

// DeleteModpack removes a modpack and its mods
func (d *DB) DeleteModpack(ctx context.Context, id string) error {
	result, err := d.ExecContext(ctx, `DELETE FROM modpacks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting modpack: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrModpackNotFound
	}
	return nil
}

// writableModpack returns ErrModpackReadOnly for remotely managed packs
func (d *DB) writableModpack(ctx context.Context, id string) error {
	mp, err := d.GetModpack(ctx, id)
	if err != nil {
		return err
	}
	if mp.IsReadOnly() {
		return fmt.Errorf("%s: %w", mp.Name, domain.ErrModpackReadOnly)
	}
	return nil
}
