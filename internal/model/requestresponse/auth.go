package requestresponse

// RegisterRequest : tubuh permintaan registrasi akun baru
type RegisterRequest struct {
	Name     string `json:"name" example:"Budi Santoso"`
	Email    string `json:"email" example:"budi.s@gmail.com"`
	Password string `json:"password" example:"rahasia123"`
	Position string `json:"position" example:"Inspector"`
	Instansi string `json:"instansi" example:"QAQC"`
}

// LoginUserRequest : login untuk role non-admin
type LoginUserRequest struct {
	Name     string `json:"name" example:"Budi Santoso"`
	Email    string `json:"email" example:"budi.s@gmail.com"`
	Password string `json:"password" example:"rahasia123"`
}

// LoginAdminRequest : login admin dengan passkey sebagai faktor kedua
type LoginAdminRequest struct {
	Name     string `json:"name" example:"Admin QAQC"`
	Email    string `json:"email" example:"admin.qaqc@gmail.com"`
	Passkey  string `json:"passkey" example:"1234"`
	Password string `json:"password" example:"rahasia123"`
}

// LoginResponse : token dan identitas user
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpsertUserRequest : admin membuat / meng-update / menyetujui user
type UpsertUserRequest struct {
	Name     string `json:"name" example:"Budi Santoso"`
	Email    string `json:"email" example:"budi.s@gmail.com"`
	Password string `json:"password,omitempty" example:"rahasia123"`
	Role     string `json:"role" example:"uploader"`
	Position string `json:"position,omitempty"`
	Instansi string `json:"instansi,omitempty"`
}

// EmailRequest : permintaan yang hanya membawa email (reject, reset password)
type EmailRequest struct {
	Email string `json:"email" example:"budi.s@gmail.com"`
}

// MessageResponse : konfirmasi operasi
type MessageResponse struct {
	Message string `json:"message" example:"Operasi berhasil"`
}

// ErrorResponse : struktur error standar {error: pesan}
type ErrorResponse struct {
	Error string `json:"error" example:"Dokumen tidak ditemukan"`
}
