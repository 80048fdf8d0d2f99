package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Generates the API key handed to clients and the SHA-256 hash the server
// stores in API_KEY_HASH. Only the hash ever reaches the server config.
func main() {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	key := "chamada_" + hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(key))

	fmt.Printf("KEY=%s\nHASH=%s\n", key, hex.EncodeToString(hash[:]))
}
