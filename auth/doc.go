// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys, voter tokens and IP hashing.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same election ID and salt always produce the same key. This allows
validation without storing the key in the database.

# Voter Tokens

Voter tokens are HS256 JWTs naming the voter (sub) and the election (eid):

	token, err := auth.IssueVoterToken(secret, electionID, voterID, now, expiresAt)
	claims, err := auth.ParseVoterToken(secret, token, now)

Verification takes the current instant explicitly so expiry checks are
deterministic in tests. Callers must still compare claims.ElectionID with
the election being accessed and confirm the voter is still registered.

# IP Hashing

For privacy-preserving fraud detection:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
