package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/stackbank/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration.
// It follows this precedence:
// 1. Viper configuration (from config file or STACKBANK_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	setString(v, "sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", &config.ServiceAccountPath)
	setString(v, "sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID", &config.ClientID)
	setString(v, "sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET", &config.ClientSecret)
	setString(v, "sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN", &config.RefreshToken)
	setString(v, "sheets.token_file", "GOOGLE_SHEETS_TOKEN_FILE", &config.TokenFile)
	setString(v, "sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID", &config.SpreadsheetID)
	setString(v, "sheets.spreadsheet_name", "GOOGLE_SHEETS_SPREADSHEET_NAME", &config.SpreadsheetName)
	setString(v, "sheets.sheet_name", "GOOGLE_SHEETS_SHEET_NAME", &config.SheetName)

	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	config.TokenFile = ExpandPath(config.TokenFile)

	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.batch_size") {
		config.BatchSize = v.GetInt("sheets.batch_size")
	}
	if v.IsSet("sheets.formatting") {
		config.EnableFormatting = v.GetBool("sheets.formatting")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadSheetsOAuth reads the client credentials used by the interactive
// authorization flow. Unlike LoadSheetsConfig it does not require a token.
func LoadSheetsOAuth(v *viper.Viper) (sheets.OAuth2Config, error) {
	var oauth sheets.OAuth2Config
	setString(v, "sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID", &oauth.ClientID)
	setString(v, "sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET", &oauth.ClientSecret)
	setString(v, "sheets.token_file", "GOOGLE_SHEETS_TOKEN_FILE", &oauth.TokenFile)
	setString(v, "sheets.callback_addr", "GOOGLE_SHEETS_CALLBACK_ADDR", &oauth.CallbackAddr)

	if oauth.ClientID == "" || oauth.ClientSecret == "" {
		return oauth, errors.New("sheets.client_id and sheets.client_secret are required")
	}
	if oauth.TokenFile == "" {
		oauth.TokenFile = filepath.Join(DataDir(), "sheets-token.json")
	}
	oauth.TokenFile = ExpandPath(oauth.TokenFile)
	return oauth, nil
}

func setString(v *viper.Viper, key, env string, dst *string) {
	if s := v.GetString(key); s != "" {
		*dst = s
		return
	}
	if s := os.Getenv(env); s != "" {
		*dst = s
	}
}
