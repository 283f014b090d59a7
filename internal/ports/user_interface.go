package ports

import (
	"context"
	"time"

	"buku-saku-server/internal/model"
	"buku-saku-server/internal/model/requestresponse"

	"github.com/jmoiron/sqlx"
)

// UserRepository : lapisan SQL untuk tabel users.
// Pencarian yang tidak menemukan baris mengembalikan (nil, nil), bukan error.
type UserRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
	Update(ctx context.Context, exec sqlx.ExtContext, user *model.User) error
	UpdatePassword(ctx context.Context, exec sqlx.ExtContext, id, newPasswordHash string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
	ListAll(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error)
	ListByRoles(ctx context.Context, exec sqlx.ExtContext, roles ...model.Role) ([]*model.User, error)
	ListActive(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error)
	ListPending(ctx context.Context, exec sqlx.ExtContext) ([]*model.User, error)
	NamesByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string) (map[string]string, error)
}

// NotificationRepository : lapisan SQL untuk tabel notifications
type NotificationRepository interface {
	InsertMany(ctx context.Context, exec sqlx.ExtContext, notifs []model.Notification) error
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, exec sqlx.ExtContext, id, userID string) error
	MarkAllRead(ctx context.Context, exec sqlx.ExtContext, userID string) error
	DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) error
	DeleteByMessagePattern(ctx context.Context, exec sqlx.ExtContext, pattern string) (int64, error)
	ListByMessagePattern(ctx context.Context, exec sqlx.ExtContext, pattern string, since time.Time, limit int) ([]model.Notification, error)
	ExistsRecent(ctx context.Context, exec sqlx.ExtContext, userID, message string, since time.Time) (bool, error)
}

type CategoryRepository interface {
	List(ctx context.Context, exec sqlx.ExtContext) ([]model.Category, error)
	FindByNameFold(ctx context.Context, exec sqlx.ExtContext, name string) (*model.Category, error)
	Create(ctx context.Context, exec sqlx.ExtContext, category *model.Category) (*model.Category, error)
	DeleteByName(ctx context.Context, exec sqlx.ExtContext, name string) (int64, error)
}

type FavoriteRepository interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, userID, documentID string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, userID, documentID string) error
	Exists(ctx context.Context, exec sqlx.ExtContext, userID, documentID string) (bool, error)
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]model.FavoriteItem, error)
	ListIDsByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]string, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Position string
	Instansi string
}

type UpsertUserInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Position string
	Instansi string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	LoginUser(ctx context.Context, name, email, password string) (string, *model.User, error)
	LoginAdmin(ctx context.Context, name, email, passkey, password string) (string, *model.User, error)
	UpsertUser(ctx context.Context, actorID string, in UpsertUserInput) (string, error)
	RejectRegistration(ctx context.Context, actorID, email string) error
	ResetPassword(ctx context.Context, email string) (string, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, actorID, targetID string) error
	Summary(ctx context.Context, actorID string) (*requestresponse.SummaryResponse, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, actorID, name string) (*model.Category, error)
	Delete(ctx context.Context, name string) error
}

type FavoriteService interface {
	Add(ctx context.Context, userID, documentID string) error
	Remove(ctx context.Context, userID, documentID string) error
	IsFavorite(ctx context.Context, userID, documentID string) (bool, error)
	List(ctx context.Context, userID string) ([]model.FavoriteItem, error)
	ListIDs(ctx context.Context, userID string) ([]string, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	CleanupTestLogs(ctx context.Context) (int64, error)
}
