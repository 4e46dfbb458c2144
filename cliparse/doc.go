// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse loads server configuration.

# Layers

Load builds a Config from, in increasing precedence:

  - Default()
  - an optional TOML file (config.toml)
  - an optional dotenv file (.env), which never overrides real env vars
  - the process environment

Command-line flags from the serve and migrate commands are applied on top
of the returned Config by main.

	cfg, err := cliparse.Load("config.toml", ".env")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

# Environment Variables

	PORT               server port (default 3318)
	DATABASE_URL       connection string or sqlite file path (required)
	DATABASE_TYPE      sqlite or postgres (default sqlite)
	ADMIN_KEY_SALT     secret for admin key HMAC (required)
	VOTER_TOKEN_SECRET secret for voter JWTs (required)
	IP_HASH_SALT       secret for IP hashing (defaults to ADMIN_KEY_SALT)
	TIME_ZONE          IANA zone used for voting hours (default Local)
	LOG_LEVEL          debug, info, warn, error
	LOG_FORMAT         auto, text, json
	BALLOT_RATE_LIMIT  ballot submissions per second per IP (0 disables)
	BALLOT_RATE_BURST  burst size for the ballot limiter
*/
package cliparse
