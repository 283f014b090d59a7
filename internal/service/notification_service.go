package service

import (
	"context"
	"fmt"

	"buku-saku-server/config"
	"buku-saku-server/internal/apperror"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"
)

const (
	notificationLimit = 50
	// pola pesan notifikasi uji coba yang boleh dibersihkan admin
	testLogPattern = "%test.pending.%"
)

type NotificationService struct {
	notificationRepository ports.NotificationRepository
}

func NewNotificationService(notificationRepository ports.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepository: notificationRepository}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]model.Notification, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[NotificationService] database connection tidak ditemukan di context")
	}

	notifications, err := s.notificationRepository.ListByUser(ctx, db.DB, userID, notificationLimit)
	if err != nil {
		return nil, apperror.Storage("Gagal mengambil notifikasi", err)
	}
	return notifications, nil
}

// MarkRead : hanya pemilik notifikasi yang bisa menandainya terbaca.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[NotificationService] database connection tidak ditemukan di context")
	}

	if err := s.notificationRepository.MarkRead(ctx, db.DB, id, userID); err != nil {
		return apperror.Storage("Gagal menandai notifikasi", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[NotificationService] database connection tidak ditemukan di context")
	}

	if err := s.notificationRepository.MarkAllRead(ctx, db.DB, userID); err != nil {
		return apperror.Storage("Gagal menandai semua notifikasi", err)
	}
	return nil
}

func (s *NotificationService) CleanupTestLogs(ctx context.Context) (int64, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return 0, fmt.Errorf("[NotificationService] database connection tidak ditemukan di context")
	}

	deleted, err := s.notificationRepository.DeleteByMessagePattern(ctx, db.DB, testLogPattern)
	if err != nil {
		return 0, apperror.Storage("Gagal membersihkan notifikasi uji coba", err)
	}
	return deleted, nil
}
