package line

const (
	DefaultAuthURL    = "https://access.line.me/oauth2/v2.1/authorize"
	DefaultTokenURL   = "https://api.line.me/oauth2/v2.1/token"
	DefaultProfileURL = "https://api.line.me/v2/profile"
)

// Config represents the configuration for the LINE Login client
type Config struct {
	// ChannelID is the LINE Login channel id (OAuth client id)
	ChannelID string

	// ChannelSecret is the channel secret (OAuth client secret)
	ChannelSecret string

	// CallbackURL must match the URL registered in the LINE console
	CallbackURL string

	// Endpoint overrides, empty means the public LINE endpoints
	AuthURL    string
	TokenURL   string
	ProfileURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ChannelID == "" || c.ChannelSecret == "" || c.CallbackURL == "" {
		return ErrNotConfigured
	}
	return nil
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.AuthURL == "" {
		out.AuthURL = DefaultAuthURL
	}
	if out.TokenURL == "" {
		out.TokenURL = DefaultTokenURL
	}
	if out.ProfileURL == "" {
		out.ProfileURL = DefaultProfileURL
	}
	return out
}
