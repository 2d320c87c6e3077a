package models

// TokenPayload is the verified identity carried by an API token.
type TokenPayload struct {
	Subject string
}
