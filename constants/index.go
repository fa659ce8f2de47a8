package constants

const (
	ROLE_ADMIN   = "admin"
	ROLE_PELAYAN = "pelayan"
	ROLE_KASIR   = "kasir"
)

const (
	MISSING_LOGIN_INPUT  = "Username dan password wajib diisi"
	INVALID_USERNAME     = "Username tidak ditemukan"
	INVALID_PASSWORD     = "Password salah"
	ACCOUNT_NOT_ACTIVE   = "Akun tidak aktif"
	ERROR_INTERNAL_ERROR = "Terjadi kesalahan pada server"
)
