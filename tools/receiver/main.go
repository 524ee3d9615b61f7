// Command receiver runs a local webhook endpoint for development and
// debugging. It prints every delivery it receives and, when a secret is
// provided, verifies the X-Webhook-Signature header against the raw body.
//
// Usage:
//
//	go run ./tools/receiver -port 9090 -secret <subscription secret>
//
// Point a subscription at http://localhost:9090/hook and use the test-fire
// endpoint to check the wiring end to end.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const signaturePrefix = "sha256="

type Config struct {
	Port   int
	Path   string
	Secret string
	Status int
}

func main() {
	cfg := parseFlags()

	http.HandleFunc(cfg.Path, func(w http.ResponseWriter, r *http.Request) {
		handleDelivery(w, r, cfg)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("Listening on http://localhost%s%s\n", addr, cfg.Path)
	if cfg.Secret != "" {
		fmt.Println("Signature verification: enabled")
	} else {
		fmt.Println("Signature verification: disabled (no -secret)")
	}
	fmt.Printf("Responding with status %d\n\n", cfg.Status)

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Port, "port", 9090, "Port to listen on")
	flag.StringVar(&cfg.Path, "path", "/hook", "Path to accept deliveries on")
	flag.StringVar(&cfg.Secret, "secret", "", "Subscription secret for signature verification (optional)")
	flag.IntVar(&cfg.Status, "status", 200, "Status code to respond with (use 500 to exercise retries)")

	flag.Parse()
	return cfg
}

func handleDelivery(w http.ResponseWriter, r *http.Request, cfg *Config) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		fmt.Printf("Error reading body: %v\n", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	fmt.Printf("--- %s %s at %s\n", r.Method, r.URL.Path, time.Now().Format("15:04:05"))
	fmt.Printf("  Event:       %s\n", r.Header.Get("X-Webhook-Event"))
	fmt.Printf("  Delivery ID: %s\n", r.Header.Get("X-Webhook-Delivery-Id"))
	if retry := r.Header.Get("X-Webhook-Retry"); retry != "" {
		fmt.Printf("  Retry:       attempt %s\n", retry)
	}

	signature := r.Header.Get("X-Webhook-Signature")
	if cfg.Secret != "" {
		if verifySignature(cfg.Secret, signature, body) {
			fmt.Println("  Signature:   ✓ valid")
		} else {
			fmt.Printf("  Signature:   ✗ INVALID (%s)\n", signature)
		}
	} else if signature != "" {
		fmt.Printf("  Signature:   %s (unverified)\n", signature)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "  ", "  "); err == nil {
		fmt.Printf("  Body:\n  %s\n\n", pretty.String())
	} else {
		fmt.Printf("  Body: %s\n\n", body)
	}

	w.WriteHeader(cfg.Status)
	_, _ = w.Write([]byte(`{"received": true}`))
}

// verifySignature recomputes the HMAC over the exact received bytes and
// compares in constant time
func verifySignature(secret, header string, body []byte) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := signaturePrefix + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
