// Command keygen writes the RS256 key pair used to sign API tokens.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dtmapi/internal/config"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	bits := flag.Int("bits", 2048, "RSA key size")
	force := flag.Bool("force", false, "overwrite existing keys")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if err := writeKeyPair(cfg.Auth.PrivateKeyPath, cfg.Auth.PublicKeyPath, *bits, *force); err != nil {
		log.Fatalf("keygen: %v", err)
	}
	fmt.Printf("Wrote %s and %s\n", cfg.Auth.PrivateKeyPath, cfg.Auth.PublicKeyPath)
}

func writeKeyPair(privPath, pubPath string, bits int, force bool) error {
	if !force {
		for _, p := range []string{privPath, pubPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists, use -force to replace it", p)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("marshal public key: %w", err)
	}

	if err := writePEM(privPath, "PRIVATE KEY", privDER, 0o600); err != nil {
		return err
	}
	return writePEM(pubPath, "PUBLIC KEY", pubDER, 0o644)
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
