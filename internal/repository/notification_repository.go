package repository

import (
	"context"
	"strconv"
	"time"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	*config.Database
}

func NewNotificationRepository(database *config.Database) *NotificationRepository {
	return &NotificationRepository{database}
}

// InsertMany : tulis hasil fan-out dalam satu statement
func (r *NotificationRepository) InsertMany(ctx context.Context, exec sqlx.ExtContext, notifs []model.Notification) error {
	if len(notifs) == 0 {
		return nil
	}

	query := `INSERT INTO notifications (id, user_id, message, type) VALUES `
	args := make([]interface{}, 0, len(notifs)*4)
	for i, n := range notifs {
		if i > 0 {
			query += ", "
		}
		base := i * 4
		query += placeholderGroup(base+1, 4)
		args = append(args, n.ID, n.UserID, n.Message, n.Type)
	}

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return util.LogError("[NotificationRepo] gagal menyimpan notifikasi", err)
	}
	return nil
}

// ListByUser : notifikasi milik user, terbaru dulu
func (r *NotificationRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string, limit int) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	notifs := []model.Notification{}
	if err := sqlx.SelectContext(ctx, exec, &notifs, query, userID, limit); err != nil {
		return nil, util.LogError("[NotificationRepo] gagal mengambil notifikasi", err)
	}
	return notifs, nil
}

// MarkRead : hanya pemilik yang boleh menandai terbaca
func (r *NotificationRepository) MarkRead(ctx context.Context, exec sqlx.ExtContext, id, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	if _, err := exec.ExecContext(ctx, query, id, userID); err != nil {
		return util.LogError("[NotificationRepo] gagal menandai notifikasi terbaca", err)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, exec sqlx.ExtContext, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	if _, err := exec.ExecContext(ctx, query, userID); err != nil {
		return util.LogError("[NotificationRepo] gagal menandai semua terbaca", err)
	}
	return nil
}

// DeleteByUser : cascade saat user dihapus / registrasi ditolak
func (r *NotificationRepository) DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
		return util.LogError("[NotificationRepo] gagal menghapus notifikasi user", err)
	}
	return nil
}

// DeleteByMessagePattern : pembersihan data uji coba oleh admin
func (r *NotificationRepository) DeleteByMessagePattern(ctx context.Context, exec sqlx.ExtContext, pattern string) (int64, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM notifications WHERE message ILIKE $1`, pattern)
	if err != nil {
		return 0, util.LogError("[NotificationRepo] gagal membersihkan notifikasi", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError("[NotificationRepo] gagal membaca rows affected", err)
	}
	return deleted, nil
}

// ListByMessagePattern : log audit penolakan registrasi untuk ringkasan admin
func (r *NotificationRepository) ListByMessagePattern(ctx context.Context, exec sqlx.ExtContext, pattern string, since time.Time, limit int) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, message, type, is_read, created_at
		FROM notifications
		WHERE message ILIKE $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	notifs := []model.Notification{}
	if err := sqlx.SelectContext(ctx, exec, &notifs, query, pattern, since, limit); err != nil {
		return nil, util.LogError("[NotificationRepo] gagal mengambil log audit", err)
	}
	return notifs, nil
}

// ExistsRecent : dedup pengingat H-7 dalam jendela waktu tertentu
func (r *NotificationRepository) ExistsRecent(ctx context.Context, exec sqlx.ExtContext, userID, message string, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND message = $2 AND created_at >= $3
		)
	`
	if err := sqlx.GetContext(ctx, exec, &exists, query, userID, message, since); err != nil {
		return false, util.LogError("[NotificationRepo] gagal cek notifikasi duplikat", err)
	}
	return exists, nil
}

// placeholderGroup : "($n, $n+1, ...)" untuk insert multi-baris
func placeholderGroup(start, count int) string {
	out := "("
	for i := 0; i < count; i++ {
		if i > 0 {
			out += ", "
		}
		out += "$" + strconv.Itoa(start+i)
	}
	return out + ")"
}
