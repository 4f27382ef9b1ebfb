// Package adaptive provides authenticated encryption for small local files.
//
// A Cipher is picked by hardware: AES-256-GCM where the CPU accelerates
// AES, ChaCha20-Poly1305 elsewhere. Seal and Open wrap the ciphertext in a
// self-describing envelope, so a file written on one machine opens on
// another regardless of which cipher each would prefer:
//
//	key, err := adaptive.DeriveKey(secret, salt, "rentdash session jar")
//	blob, err := adaptive.Seal(key, plaintext, aad)
//	plaintext, err := adaptive.Open(key, blob, aad)
package adaptive
