package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the interactive flow listens for the redirect.
const DefaultCallbackAddr = "localhost:8080"

// OAuth2Config holds OAuth2 configuration.
type OAuth2Config struct {
	// OpenBrowser is called with the consent URL; nil only logs it.
	OpenBrowser  func(url string)
	ClientID     string
	ClientSecret string
	TokenFile    string // Where to save the token
	CallbackAddr string
	Scopes       []string
	Timeout      time.Duration
	// Endpoint overrides google.Endpoint in tests.
	Endpoint oauth2.Endpoint
}

func (c OAuth2Config) oauthConfig(redirect string) *oauth2.Config {
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = []string{sheets.SpreadsheetsReadonlyScope}
	}
	endpoint := c.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  redirect,
		Scopes:       scopes,
	}
}

// AuthenticateOAuth2Interactive performs the OAuth2 flow interactively and
// returns a token carrying a refresh token for the requested scopes.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	addr := config.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	oauthConfig := config.oauthConfig(fmt.Sprintf("http://%s/callback", listener.Addr().String()))

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			select {
			case errorChan <- fmt.Errorf("no authorization code received"):
			default:
			}
			_, _ = fmt.Fprint(w, `<html><body>
				<h1>Authentication Failed</h1>
				<p>No authorization code received. Please try again.</p>
			</body></html>`)
			return
		}

		select {
		case codeChan <- code:
		default:
		}
		_, _ = fmt.Fprint(w, `<html><body>
			<h1>Authentication Successful!</h1>
			<p>You can close this window and return to the terminal.</p>
			<script>window.setTimeout(function(){window.close();}, 3000);</script>
		</body></html>`)
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errorChan <- fmt.Errorf("callback server failed: %w", err):
			default:
			}
		}
	}()
	defer func() {
		if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	// offline access so Google issues a refresh token
	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	slog.Info("Google authentication required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)
	if config.OpenBrowser != nil {
		config.OpenBrowser(authURL)
	}

	var authCode string
	select {
	case authCode = <-codeChan:
		slog.Info("Received authorization code")
	case err := <-errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, fmt.Errorf("authentication timeout - no response received within %s", timeout)
	}

	token, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		} else {
			slog.Info("Token saved successfully", "file", config.TokenFile)
		}
	}

	return token, nil
}

// LoadToken loads a token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}
