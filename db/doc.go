// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open picks the driver from the configured database type:

	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")
	conn, err := db.Open(ctx, db.TypeSQLite, "eboto.db")

PostgreSQL uses github.com/lib/pq. SQLite uses modernc.org/sqlite with
foreign keys enabled and a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: schedule, publicity and soft-delete status
  - election_position: min/max limits and declaration order
  - partylist: candidate groupings, one default per election
  - candidate: running for one position under one partylist
  - voter: registered voters per election
  - ballot: one per voter per election, UNIQUE (election_id, voter_id)
  - vote: one row per selected candidate

# Relationships

	election 1──* election_position 1──* candidate
	election 1──* partylist 1──* candidate
	election 1──* voter 1──? ballot 1──* vote *──1 candidate

All foreign keys use ON DELETE CASCADE. Rows are soft-deleted through the
status column, so cascades only fire on manual cleanup.
*/
package db
