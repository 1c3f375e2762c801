package cognito

import "context"

// Client is the seam to the external identity provider. The service
// layer depends on this interface, never on the AWS SDK directly.
type Client interface {
	Login(ctx context.Context, input LoginInput) (AuthOutput, error)
	RefreshTokens(ctx context.Context, input RefreshInput) (AuthOutput, error)
	GlobalSignOut(ctx context.Context, input GlobalSignOutInput) error
}

// LoginInput contains the credentials for a password login.
type LoginInput struct {
	Email    string
	Password string
}

// AuthOutput contains tokens returned after successful authentication.
type AuthOutput struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}

// RefreshInput contains the parameters for refreshing tokens.
type RefreshInput struct {
	Email        string
	RefreshToken string
}

// GlobalSignOutInput contains the parameters for signing out everywhere.
type GlobalSignOutInput struct {
	AccessToken string
}
