// Command oauth-init runs the one-time OAuth flow for the sheets backend and
// saves the resulting token where the server expects it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"wattboard/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := loadClientConfig()
	if err != nil {
		log.Fatalf("oauth client: %v", err)
	}

	// The local callback server handles the redirect. The OAuth client must
	// list this URI among its authorized redirect URIs.
	redirectPort := os.Getenv("OAUTH_REDIRECT_PORT")
	if redirectPort == "" {
		redirectPort = "8085"
	}
	cfg.RedirectURL = "http://localhost:" + redirectPort + "/callback"

	codeCh := make(chan string, 1)
	srv := &http.Server{Addr: ":" + redirectPort}
	http.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorization received. You may close this window.")
		codeCh <- r.URL.Query().Get("code")
		go func() { time.Sleep(500 * time.Millisecond); _ = srv.Close() }()
	})
	go func() { _ = srv.ListenAndServe() }()

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL to authorize access to the spreadsheet:\n%s\n", authURL)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(context.Background(), code)
		if err != nil {
			log.Fatalf("token exchange: %v", err)
		}
		outFile := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
		if outFile == "" {
			outFile = "token.json"
		}
		if err := saveToken(outFile, tok); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Printf("Saved token to %s\n", outFile)
	case <-time.After(5 * time.Minute):
		log.Fatalf("authorization timed out")
	case <-interrupt:
		log.Fatalf("interrupted")
	}
}

// loadClientConfig reads the OAuth client definition from the environment,
// inline JSON winning over a file path.
func loadClientConfig() (*oauth2.Config, error) {
	var b []byte
	switch {
	case os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "":
		b = []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	case os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != "":
		var err error
		b, err = os.ReadFile(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
	default:
		return nil, fmt.Errorf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}
	return google.ConfigFromJSON(b, sheets.SpreadsheetsScope)
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(tok)
}
