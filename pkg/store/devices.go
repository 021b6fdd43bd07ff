package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrDeviceNotFound = errors.New("device not found")

// Device is one cached roster entry with its last rendered state.
type Device struct {
	ID        string
	Name      string
	Kind      string
	HubID     string
	Remote    bool
	State     string // JSON
	LastSeen  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeviceStore provides device cache operations.
type DeviceStore interface {
	Get(ctx context.Context, id string) (*Device, error)
	List(ctx context.Context) ([]*Device, error)
	Upsert(ctx context.Context, d *Device) error
	SaveState(ctx context.Context, id, state string) error
	Delete(ctx context.Context, id string) error
}

// Devices returns a DeviceStore for this database.
func (s *Store) Devices() DeviceStore {
	return &deviceStore{store: s}
}

type deviceStore struct {
	store *Store
}

func (s *deviceStore) Get(ctx context.Context, id string) (*Device, error) {
	d := &Device{}
	var lastSeen sql.NullString
	var createdAt, updatedAt string
	err := s.store.QueryRowContext(ctx, `
		SELECT id, name, kind, hub_id, remote, state, last_seen, created_at, updated_at
		FROM devices WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &d.Kind, &d.HubID, &d.Remote, &d.State, &lastSeen, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		d.LastSeen, _ = time.Parse(time.DateTime, lastSeen.String)
	}
	d.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	d.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return d, nil
}

func (s *deviceStore) List(ctx context.Context) ([]*Device, error) {
	rows, err := s.store.QueryContext(ctx, `
		SELECT id, name, kind, hub_id, remote, state, last_seen, created_at, updated_at
		FROM devices ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Device
	for rows.Next() {
		d := &Device{}
		var lastSeen sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.Name, &d.Kind, &d.HubID, &d.Remote, &d.State,
			&lastSeen, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if lastSeen.Valid {
			d.LastSeen, _ = time.Parse(time.DateTime, lastSeen.String)
		}
		d.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		d.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *deviceStore) Upsert(ctx context.Context, d *Device) error {
	state := d.State
	if state == "" {
		state = "{}"
	}
	_, err := s.store.ExecContext(ctx, `
		INSERT INTO devices (id, name, kind, hub_id, remote, state)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			hub_id = excluded.hub_id,
			remote = excluded.remote,
			updated_at = datetime('now')
	`, d.ID, d.Name, d.Kind, d.HubID, d.Remote, state)
	return err
}

func (s *deviceStore) SaveState(ctx context.Context, id, state string) error {
	res, err := s.store.ExecContext(ctx, `
		UPDATE devices SET
			state = ?,
			last_seen = datetime('now'),
			updated_at = datetime('now')
		WHERE id = ?
	`, state, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func (s *deviceStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
