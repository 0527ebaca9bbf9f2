// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth implements stateless identity credentials.

An identity is a random hex string claimed via POST /identities; its key
is HMAC-SHA256(identity, salt). Because the key is recomputable from the
salt, validation needs no credential table:

	key := auth.GenerateIdentityKey(identity, cfg.IdentityKeySalt)
	err := auth.ValidateIdentityKey(identity, key, cfg.IdentityKeySalt)

Requests carry X-Identity and X-Identity-Key headers. The identity string
is what the ledger records as a poll's authority and as the voter in
ledger and receipt addresses - holding the key is holding the identity.
*/
package auth
