package gen

type Identity struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Photo         string
	Role          string
	EmailVerified bool
	RefreshToken  string
	CreatedAt     int64
	UpdatedAt     int64
}

type VerificationCode struct {
	Email     string
	Code      int64
	ExpiresAt int64
	CreatedAt int64
}
