package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DeviceRepository persists scanner devices and their refresh tokens.
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a repo.
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// UpsertDevice ensures a scanner device record exists.
func (r *DeviceRepository) UpsertDevice(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return errors.New("device id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scanner_devices (device_id)
		VALUES ($1)
		ON CONFLICT (device_id) DO NOTHING
	`, deviceID)
	return err
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *DeviceRepository) SaveRefreshToken(ctx context.Context, deviceID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (device_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, deviceID, token, expiresAt)
	return err
}

// RevokeRefreshToken marks a token revoked.
func (r *DeviceRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

// RefreshTokenValid reports whether a stored refresh token is known,
// unrevoked and unexpired.
func (r *DeviceRepository) RefreshTokenValid(ctx context.Context, deviceID, token string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM refresh_tokens
			WHERE device_id = $1 AND token = $2 AND NOT revoked AND expires_at > NOW()
		)
	`, deviceID, token).Scan(&ok)
	return ok, err
}
