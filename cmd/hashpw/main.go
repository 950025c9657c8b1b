// Command hashpw prints a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
// The password is read from the first argument or, when absent, from the
// first line of stdin.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/tendant/simple-cms/internal/logging"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

func main() {
	password, err := readPassword()
	if err != nil {
		logging.Fatal("Failed to read password", "error", err)
	}
	if password == "" {
		logging.Fatal("Password cannot be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logging.Fatal("Failed to hash password", "error", err)
	}
	fmt.Println(hash)
}

func readPassword() (string, error) {
	if len(os.Args) > 1 {
		return os.Args[1], nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
