package lightroom

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultTokenURL = "https://ims-na1.adobelogin.com/ims/token/v3"
	Scope           = "lr_partner_apis,lr_partner_rendition_apis"
)

var (
	ErrNoCredentials = errors.New("photo catalog credentials not configured")
)

/*
tokenChain asks each source in priority order and returns the first token
obtained. Order is static token, refresh-token exchange, client credentials.
*/
type tokenChain struct {
	sources []oauth2.TokenSource
}

func (c tokenChain) Token() (*oauth2.Token, error) {
	var errs []error

	for _, source := range c.sources {
		token, err := source.Token()
		if err == nil {
			return token, nil
		}

		errs = append(errs, err)
	}

	return nil, fmt.Errorf("error obtaining catalog access token: %w", errors.Join(errs...))
}

/*
newTokenSource builds the token chain from whatever credentials are
configured. It returns nil when no credentials at all are present. Exchanged
tokens are cached until they expire.
*/
func newTokenSource(config ClientConfig, httpClient *http.Client) oauth2.TokenSource {
	sources := []oauth2.TokenSource{}

	// Token exchanges outlive any single request, so they get their own context.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	if config.AccessToken != "" {
		sources = append(sources, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: config.AccessToken,
			TokenType:   "Bearer",
		}))
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		if config.RefreshToken != "" {
			refreshConfig := &oauth2.Config{
				ClientID:     config.ClientID,
				ClientSecret: config.ClientSecret,
				Endpoint: oauth2.Endpoint{
					TokenURL:  config.TokenURL,
					AuthStyle: oauth2.AuthStyleInParams,
				},
			}

			sources = append(sources, refreshConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken}))
		}

		credentialsConfig := &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       []string{Scope},
			AuthStyle:    oauth2.AuthStyleInParams,
		}

		sources = append(sources, credentialsConfig.TokenSource(ctx))
	}

	if len(sources) == 0 {
		return nil
	}

	return oauth2.ReuseTokenSource(nil, tokenChain{sources: sources})
}
