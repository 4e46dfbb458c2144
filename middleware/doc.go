// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Each request logs once on completion with method, path, status, bytes and
duration_ms. 4xx responses log at warn and 5xx at error.

# CORS Middleware

Enable cross-origin requests for the configured frontends:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins)(mux),
	}

An empty origin list answers with "*". Credentials are custom headers
(X-Admin-Key, X-Voter-Token), so no Allow-Credentials header is sent.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.AddVoterRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

Bodies are capped at MaxBodyBytes. DecodeJSON runs go-playground/validator
over the `validate` struct tags and reports fields by their json names
("email is required").

# Client IP Resolution

	ips := middleware.NewIPResolver(cfg.ProxyPrefixes())
	ip := ips.ClientIP(r)

X-Forwarded-For and X-Real-IP are only read when the TCP peer is inside a
trusted proxy prefix. Otherwise the peer address is the client.

# Rate Limiting

Ballot submission is limited per client IP with a token bucket:

	limiter := middleware.NewIPRateLimiter(cfg.BallotRateLimit, cfg.BallotRateBurst, ips)
	mux.HandleFunc("POST /elections/{slug}/ballots",
		middleware.WithLogging(middleware.RateLimit(limiter, h.SubmitBallot)))

Rejected requests get 429 with a Retry-After header.
*/
package middleware
