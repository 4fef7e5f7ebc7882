// Package aeadpacket implements the UDP codec (L4): encryption and
// decryption of whole, independent datagrams.
//
// Unlike the TCP chunk codec, there is no session subkey ladder here: each
// packet carries its own random salt purely as an identity token for the
// replay filter, but the AEAD itself runs directly against the cipher
// descriptor's master key with an all-zero nonce. This mirrors the reference
// protocol's documented limitation: random salts do not, by themselves,
// prevent nonce reuse across UDP packets under any method, since the nonce
// is fixed rather than derived from the salt. The wire layout is:
//
//	salt[key_len] || aead_seal(master_key, nonce=0, plaintext)
package aeadpacket
