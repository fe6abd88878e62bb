package internal

const (
	COOKIE_TOKEN_NAME = "token"
)
