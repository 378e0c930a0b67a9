package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/Veraticus/visawatch/internal/config"
	"github.com/Veraticus/visawatch/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/api/gmail/v1"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
		Long:  `Authenticate with Google so records can be read from Sheets and notifications sent through Gmail.`,
	}

	cmd.AddCommand(authGoogleCmd())

	return cmd
}

func authGoogleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "google",
		Short: "Authorize Google Sheets and Gmail access",
		Long: `Authorize visawatch with your Google account using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Ask for read access to spreadsheets and permission to send email
3. Save the refresh token under google.refresh_token in your config file

Both the Sheets loader and the Gmail channel use this token unless they
have credentials of their own.`,
		RunE: runAuthGoogle,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().Bool("sheets-only", false, "Only request spreadsheet access")

	return cmd
}

func runAuthGoogle(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("google.client_id")
	clientSecret := viper.GetString("google.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	if clientID == "" {
		clientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set google.client_id and google.client_secret in config or use --client-id and --client-secret flags")
	}

	tokenFile, err := tokenPath()
	if err != nil {
		return err
	}

	scopes := []string{sheetsapi.SpreadsheetsReadonlyScope, gmail.GmailSendScope}
	if sheetsOnly, _ := cmd.Flags().GetBool("sheets-only"); sheetsOnly {
		scopes = scopes[:1]
	}

	slog.Info("Starting Google authentication", "token_file", tokenFile, "scopes", scopes)

	token, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		Scopes:       scopes,
		OpenBrowser:  openBrowser,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("google.refresh_token", token.RefreshToken)

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		slog.Info("Please add this to your config.yaml manually:")
		slog.Info(fmt.Sprintf("google:\n  refresh_token: \"%s\"", token.RefreshToken))
	} else {
		slog.Info("✅ Authentication successful!")
	}

	slog.Info("Run 'visawatch check --spreadsheet-id <id>' to read records from Google Sheets.")

	return nil
}

func tokenPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "visawatch", "google-token.json"), nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "visawatch", "config.yaml")
	}
	configFile = config.ExpandPath(configFile)

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch goos := runtime.GOOS; goos {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec,forbidigo
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec,forbidigo
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec,forbidigo
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
