// Command hash-password prints a bcrypt hash for manually resetting a user's
// password_hash column.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"maintenance-system/pkg/utils"
)

func main() {
	password := flag.String("password", "", "plain text password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: hash-password -password <value>")
		os.Exit(2)
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Println(hashed)
}
