// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity tokens, password hashing, and random code
generation.

# Identity Tokens

Callers authenticate with an HS256 JWT whose subject is the user id:

	issuer, err := auth.NewTokenIssuer(secret, "quickly-dine", 720*time.Hour)
	token, expiresAt, err := issuer.Issue(userID, guest)
	identity, err := issuer.Validate(token)

The issuer string is also the audience. Validate rejects anything that is
not HMAC-signed with the configured secret, is expired, or names another
issuer, always with ErrInvalidToken. Guest identities carry guest=true and
are otherwise ordinary users.

# Passwords

Registered users store a bcrypt hash:

	h := auth.NewHasher(0) // bcrypt.DefaultCost
	hash, err := h.Hash(password)
	err = h.Compare(hash, password)

Passwords shorter than MinPasswordLen are rejected before hashing.

# Join Codes

GenerateJoinCode returns six uniformly random digits from crypto/rand. Codes
are not guaranteed unique; the session store enforces uniqueness among
active sessions and callers retry on collision.

# IDs

GenerateID returns byteLen random bytes hex encoded:

	id, err := auth.GenerateID(16) // 32 hex chars
*/
package auth
