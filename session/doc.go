/*
Package session implements the per-direction session state (L7) and session
subkey derivation (L3) that sit above the cipher-agnostic primitives in
aeadcore.

A Context tracks, for one direction of one connection: whether the salt has
been sent/consumed yet, the salt itself, the derived subkey, the running
nonce counter, and, on the decrypt side, the reassembly buffer holding
ciphertext bytes received but not yet turned into a complete chunk. Exactly
one Context exists per direction per connection; the encrypt-side and
decrypt-side contexts are independent and may be driven from different
goroutines.
*/
package session
