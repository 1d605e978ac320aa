// Command hashpw prompts for a password without echo and prints its bcrypt
// digest, for seeding admin accounts by hand.
package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/parthpl/userbase/internal/server/auth"
)

func main() {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}

	digest, err := auth.HashPassword(string(password))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(digest)
}
