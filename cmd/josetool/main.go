// Command josetool is a minimal demonstration of this module's JWK
// and JWE packages: generate an oct key, encrypt a message under it,
// and decrypt a compact-serialized JWE back to plaintext.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/fanglinliu/cjose-for-windows/pkg/header"
	"github.com/fanglinliu/cjose-for-windows/pkg/jwa"
	"github.com/fanglinliu/cjose-for-windows/pkg/jwe"
	"github.com/fanglinliu/cjose-for-windows/pkg/jwk"
)

func main() {
	var (
		mode      = flag.String("mode", "demo", "demo | encrypt | decrypt")
		keyHex    = flag.String("key", "", "hex-encoded oct key (32 bytes for A256GCM)")
		plaintext = flag.String("plaintext", "", "plaintext to encrypt")
		compact   = flag.String("compact", "", "compact JWE to decrypt")
	)
	flag.Parse()

	switch *mode {
	case "demo":
		runDemo()
	case "encrypt":
		runEncrypt(*keyHex, *plaintext)
	case "decrypt":
		runDecrypt(*keyHex, *compact)
	default:
		log.Fatalf("unknown -mode %q", *mode)
	}
}

func runDemo() {
	key, err := jwk.CreateOctRandom(256)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}
	octKey, _ := key.OctKey()
	fmt.Println("Generated A256GCM key:", hex.EncodeToString(octKey))

	hdr := header.New()
	hdr.Set(header.Algorithm, jwa.Dir)
	hdr.Set(header.Encryption, jwa.A256GCM)

	message, err := jwe.Encrypt(key, hdr, []byte("Hello world!"))
	if err != nil {
		log.Fatalf("encrypt: %v", err)
	}
	compact, err := message.CompactSerialize()
	if err != nil {
		log.Fatalf("serialize: %v", err)
	}
	fmt.Println("JWE:", compact)

	parsed, err := jwe.ParseCompact(compact)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}
	plaintext, err := parsed.Decrypt(key)
	if err != nil {
		log.Fatalf("decrypt: %v", err)
	}
	fmt.Println("Decrypted:", string(plaintext))
}

func runEncrypt(keyHex, plaintext string) {
	key, err := keyFromHex(keyHex)
	if err != nil {
		log.Fatal(err)
	}
	hdr := header.New()
	hdr.Set(header.Algorithm, jwa.Dir)
	hdr.Set(header.Encryption, jwa.A256GCM)

	message, err := jwe.Encrypt(key, hdr, []byte(plaintext))
	if err != nil {
		log.Fatalf("encrypt: %v", err)
	}
	compact, err := message.CompactSerialize()
	if err != nil {
		log.Fatalf("serialize: %v", err)
	}
	fmt.Println(compact)
}

func runDecrypt(keyHex, compact string) {
	key, err := keyFromHex(keyHex)
	if err != nil {
		log.Fatal(err)
	}
	parsed, err := jwe.ParseCompact(compact)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}
	plaintext, err := parsed.Decrypt(key)
	if err != nil {
		log.Fatalf("decrypt: %v", err)
	}
	fmt.Println(string(plaintext))
}

func keyFromHex(s string) (*jwk.JWK, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("-key must be hex-encoded: %w", err)
	}
	return jwk.CreateOctSpec(raw)
}
