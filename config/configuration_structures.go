package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
	// TokenTTL dalam format time.ParseDuration, default 12h
	TokenTTL string `yaml:"token_ttl"`
	// EnforceName : login juga mencocokkan nama, bukan hanya email+password
	EnforceName bool `yaml:"enforce_name"`
}

// EmbeddingConfig : penyedia embedding HTTP (Ollama-compatible)
type EmbeddingConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// MailConfig : penyedia email HTTP (Resend-compatible)
type MailConfig struct {
	APIURL  string `yaml:"api_url"`
	APIKey  string `yaml:"api_key"`
	From    string `yaml:"from"`
	Timeout string `yaml:"timeout"`
}

type UploadConfig struct {
	// MaxFileSize dalam byte, default 10 MiB
	MaxFileSize int64 `yaml:"max_file_size"`
}

type CategoriesConfig struct {
	// ProtectReferenced : tolak penghapusan kategori yang masih dipakai dokumen
	ProtectReferenced bool `yaml:"protect_referenced"`
}

type AdminConfig struct {
	// SuperAdminEmail tidak boleh dihapus lewat API
	SuperAdminEmail string `yaml:"super_admin_email"`
}

type TTL struct {
	// SignedURL : masa berlaku pre-signed URL (detik)
	SignedURL int `yaml:"signed_url"`
	// Cache : masa berlaku cache Redis (detik)
	Cache int `yaml:"cache"`
}
