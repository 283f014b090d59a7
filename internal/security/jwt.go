package security

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/ports"
	"buku-saku-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserID string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// GenerateToken : access token HS512 berisi identitas user, berlaku 12 jam.
func (service *JWTService) GenerateToken(user *model.User) (string, error) {
	ttl, err := time.ParseDuration(service.TokenTTL)
	if err != nil {
		return "", util.LogError("gagal parsing token_ttl", err)
	}

	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "buku-saku-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	token, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", util.LogError("gagal menandatangani token", err)
	}

	return token, nil
}

func (service *JWTService) ValidateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("metode tanda tangan token salah: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, util.LogError("token tidak valid", err)
	}

	return claims, nil
}

// JWTMiddleware : validasi bearer token lalu ambil ulang role dari database.
// Role dalam token tidak pernah dipercaya begitu saja; token lama yang role-nya
// sudah diubah admin tidak boleh membawa hak akses lama.
func JWTMiddleware(secretKey []byte, userRepository ports.UserRepository, jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(secretKey, userRepository, jwtService, next))
	}
}

func handleAuthentication(secretKey []byte, userRepository ports.UserRepository, jwtService *JWTService, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "Unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := jwtService.ValidateJWT(token, secretKey)
		if err != nil {
			util.HandleError(writer, "Token tidak valid", http.StatusUnauthorized)
			return
		}

		if db, ok := request.Context().Value("db").(*config.Database); ok {
			user, err := userRepository.FindByID(request.Context(), db, claims.UserID)
			if err == nil && user != nil {
				claims.Role = user.Role
				claims.Name = user.Name
				claims.Email = user.Email
			}
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

// RequireRole : allow-list role per route. Penolakan dicatat beserta identitas
// pelaku dan route yang dicoba.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := GetClaimsFromContext(request.Context())
			if err != nil {
				util.HandleError(writer, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !claims.Role.In(roles...) {
				log.Printf("[AUTH] akses ditolak: user %s (role %q) mencoba %s %s",
					claims.Email, claims.Role, request.Method, request.URL.Path)
				util.HandleError(writer, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("pengguna belum login")
	}
	return claims, nil
}
