// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles service configuration.

Values are resolved from CLI flags first, then environment variables
(a .env file is loaded if present, via godotenv):

	-p / PORT                  server port (default 3419)
	-d / DATABASE_URL          sqlite path or postgres URL (required)
	-t / DATABASE_TYPE         "sqlite" (default) or "postgres"
	-identity-salt /
	  IDENTITY_KEY_SALT        HMAC salt for identity keys (required)
*/
package cliparse
