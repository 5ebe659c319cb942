// Command bootstrap creates the initial admin user directly against the
// persisted user document, without sending the password over HTTP. It is a
// one-shot operation: once any user exists it refuses to run.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/watchdeck/watchdeck/internal/common"
	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/server/config"
	"github.com/watchdeck/watchdeck/internal/server/users"
	"github.com/watchdeck/watchdeck/internal/shared"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt + "\n> ")
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func getPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func run() error {
	ctx := context.Background()
	cfg := config.LoadConfig()

	store := users.New(filepath.Join(cfg.DataDir, users.DocumentName), logging.NewJSON(os.Stderr))
	store.Load(ctx)

	if !store.NeedsSetup() {
		return common.ErrAlreadyInitialized
	}

	reader := bufio.NewReader(os.Stdin)
	username, err := getSimpleText(reader, "Admin username")
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password: ")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	confirm, err := getPassword("Confirm password: ")
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}

	user, err := store.BootstrapAdmin(ctx, username, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("admin user %q created\n", user.Username)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}
}
