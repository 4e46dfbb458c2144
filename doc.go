// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the eBoto API server.

eBoto runs school and organization elections: administrators set up
positions, partylists, candidates and voters, and registered voters cast a
single ballot during the election's daily voting hours.

# Starting the Server

The server reads config.toml, .env and the environment, in that order:

	ADMIN_KEY_SALT=... VOTER_TOKEN_SECRET=... DATABASE_URL=eboto.db go run .

Or with flags:

	go run . -d "postgres://..." --database-type postgres serve -p 3318

The schema can be created without starting the server:

	go run . migrate
	go run . migrate --drop

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite file
  - ADMIN_KEY_SALT: Secret for admin key HMAC
  - VOTER_TOKEN_SECRET: Secret for voter token signing

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE: sqlite (default) or postgres
  - TIME_ZONE: Zone in which voting hours are evaluated
  - LOG_LEVEL, LOG_FORMAT: Logger settings

# Architecture

The server uses a handler-based architecture with dependency injection:

  - election: Voting window clock and ballot validation
  - handlers: HTTP request handlers (elections, positions, candidates, voters, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - store: SQL persistence
  - models: Request/response types
  - auth: Admin keys and voter tokens
  - db: Connection and schema creation
  - cliparse: Configuration loading
  - logging: slog handler setup

See package documentation for each component.
*/
package main
