package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/marketpulse/internal/flagx"
	"github.com/dmitrijs2005/marketpulse/internal/timex"
)

// JsonOAuthProvider mirrors OAuthProvider for JSON unmarshalling.
type JsonOAuthProvider struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP                  string            `json:"endpoint_addr_http"`
	DatabaseDSN                       string            `json:"database_dsn"`
	SecretKey                         string            `json:"secret_key"`
	AccessTokenValidityDuration       timex.Duration    `json:"access_token_validity_duration"`
	VerificationTokenValidityDuration timex.Duration    `json:"verification_token_validity_duration"`
	ResetTokenValidityDuration        timex.Duration    `json:"reset_token_validity_duration"`
	PublicBaseURL                     string            `json:"public_base_url"`
	FrontendURL                       string            `json:"frontend_url"`
	Google                            JsonOAuthProvider `json:"google"`
	Facebook                          JsonOAuthProvider `json:"facebook"`
	LinkedIn                          JsonOAuthProvider `json:"linkedin"`
	GitHub                            JsonOAuthProvider `json:"github"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. The resulting values are copied into the target Config.
// If the file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.VerificationTokenValidityDuration = time.Duration(c.VerificationTokenValidityDuration.Duration)
	config.ResetTokenValidityDuration = time.Duration(c.ResetTokenValidityDuration.Duration)
	config.PublicBaseURL = c.PublicBaseURL
	config.FrontendURL = c.FrontendURL
	config.Google = OAuthProvider(c.Google)
	config.Facebook = OAuthProvider(c.Facebook)
	config.LinkedIn = OAuthProvider(c.LinkedIn)
	config.GitHub = OAuthProvider(c.GitHub)
}
