package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// googleAuth is the credential set of a single Google authentication method.
type googleAuth struct {
	ServiceAccountPath string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
}

func (a googleAuth) oauthComplete() bool {
	return a.ClientID != "" && a.ClientSecret != "" && a.RefreshToken != ""
}

// googleMethod says which method wins when the shared google.* keys carry both.
type googleMethod int

const (
	preferServiceAccount googleMethod = iota
	preferOAuth
)

// resolveGoogleAuth picks one authentication method for an API. A service
// account path or refresh token set under section (or the matching envPrefix
// variable) selects that method outright. Otherwise the shared google.* keys
// are used, falling back to prefer when they hold both methods. OAuth client
// id and secret may always come from google.*.
func resolveGoogleAuth(v *viper.Viper, section, envPrefix string, prefer googleMethod) googleAuth {
	own := func(key string) string {
		return firstNonEmpty(v.GetString(section+"."+key), os.Getenv(envPrefix+strings.ToUpper(key)))
	}
	shared := func(key string) string {
		return v.GetString("google." + key)
	}

	oauth := googleAuth{
		ClientID:     firstNonEmpty(own("client_id"), shared("client_id")),
		ClientSecret: firstNonEmpty(own("client_secret"), shared("client_secret")),
		RefreshToken: own("refresh_token"),
	}
	serviceAccount := ExpandPath(own("service_account_path"))

	switch {
	case serviceAccount != "" && oauth.RefreshToken != "":
		// both chosen for this API; Validate reports the conflict
		oauth.ServiceAccountPath = serviceAccount
		return oauth
	case serviceAccount != "":
		return googleAuth{ServiceAccountPath: serviceAccount}
	case oauth.RefreshToken != "":
		return oauth
	}

	oauth.RefreshToken = shared("refresh_token")
	serviceAccount = ExpandPath(shared("service_account_path"))
	switch {
	case serviceAccount == "":
		return oauth
	case oauth.oauthComplete() && prefer == preferOAuth:
		return oauth
	default:
		return googleAuth{ServiceAccountPath: serviceAccount}
	}
}
