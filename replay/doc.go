/*
Package replay implements the salt-replay suppression filter (L6): a
scalable, thread-safe probabilistic set of salts observed on inbound
connections and datagrams, active on the server/receiver role only.

It is a ring of bloom filter slots, each capped at a capacity, rotated and
reset as the ring fills, backed by github.com/riobard/go-bloom with a
double-FNV hash. The filter is wired into both the TCP and UDP decode
paths, and Check is consulted before any AEAD decryption is attempted. The
UDP path calls Add only after the datagram passes verification; the TCP
path calls Add as soon as it consumes the salt, before decoding any chunk.
*/
package replay
