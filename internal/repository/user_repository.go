package repository

import (
	"context"
	"database/sql"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

const userColumns = `id, name, email, password_hash, passkey_hash, role, is_active, position, instansi, created_at`

// Create : simpan user baru
func (r *UserRepository) Create(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash, passkey_hash, role, is_active, position, instansi)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := exec.QueryRowxContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.PasskeyHash,
		user.Role,
		user.IsActive,
		user.Position,
		user.Instansi,
	).Scan(&user.CreatedAt)

	if err != nil {
		return nil, util.LogError("[UserRepo] gagal menyimpan user", err)
	}
	return user, nil
}

// FindByID : (nil, nil) jika tidak ditemukan
func (r *UserRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, util.LogError("[UserRepo] gagal mencari user", err)
	}
	return &user, nil
}

// FindByEmail : (nil, nil) jika tidak ditemukan
func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, util.LogError("[UserRepo] gagal mencari user berdasarkan email", err)
	}
	return &user, nil
}

// Update : perbarui profil, role, status aktif, dan kredensial
func (r *UserRepository) Update(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	query := `
		UPDATE users
		SET name = $2, role = $3, is_active = $4, position = $5, instansi = $6,
		    password_hash = $7, passkey_hash = $8
		WHERE id = $1
	`
	_, err := exec.ExecContext(ctx, query,
		user.ID, user.Name, user.Role, user.IsActive, user.Position, user.Instansi,
		user.PasswordHash, user.PasskeyHash,
	)
	if err != nil {
		return util.LogError("[UserRepo] gagal memperbarui user", err)
	}
	return nil
}

// UpdatePassword : ganti hash password
func (r *UserRepository) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, id, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	_, err := exec.ExecContext(ctx, query, id, newPasswordHash)
	if err != nil {
		return util.LogError("[UserRepo] gagal memperbarui password", err)
	}
	return nil
}

// Delete : hapus permanen; pemindahan data terkait dilakukan service
func (r *UserRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return util.LogError("[UserRepo] gagal menghapus user", err)
	}
	return nil
}

// ListAll : seluruh user, terbaru dulu
func (r *UserRepository) ListAll(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	var users []*model.User
	if err := sqlx.SelectContext(ctx, exec, &users, query); err != nil {
		return nil, util.LogError("[UserRepo] gagal mengambil daftar user", err)
	}
	return users, nil
}

// ListByRoles : user dengan salah satu role tersebut
func (r *UserRepository) ListByRoles(ctx context.Context, exec sqlx.ExtContext, roles ...model.Role) ([]*model.User, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE role = ANY($1)`
	var users []*model.User
	if err := sqlx.SelectContext(ctx, exec, &users, query, pq.StringArray(names)); err != nil {
		return nil, util.LogError("[UserRepo] gagal mengambil user per role", err)
	}
	return users, nil
}

// ListActive : user yang sudah disetujui
func (r *UserRepository) ListActive(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE ORDER BY created_at DESC`
	var users []*model.User
	if err := sqlx.SelectContext(ctx, exec, &users, query); err != nil {
		return nil, util.LogError("[UserRepo] gagal mengambil user aktif", err)
	}
	return users, nil
}

// ListPending : pendaftaran yang belum diputuskan (is_active NULL atau FALSE)
func (r *UserRepository) ListPending(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active IS NULL OR is_active = FALSE`
	var users []*model.User
	if err := sqlx.SelectContext(ctx, exec, &users, query); err != nil {
		return nil, util.LogError("[UserRepo] gagal mengambil user pending", err)
	}
	return users, nil
}

// NamesByIDs : resolve nama banyak user sekaligus, satu query untuk semua baris
func (r *UserRepository) NamesByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string) (map[string]string, error) {
	result := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id, name FROM users WHERE id = ANY($1)`
	rows, err := exec.QueryxContext(ctx, query, pq.StringArray(ids))
	if err != nil {
		return nil, util.LogError("[UserRepo] gagal resolve nama user", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, util.LogError("[UserRepo] gagal scan nama user", err)
		}
		result[id] = name
	}
	return result, rows.Err()
}
