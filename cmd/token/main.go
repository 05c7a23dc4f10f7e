// Command token mints an access token for calling the protected endpoints
// during development.  Users are managed outside this service, so this is
// the only way to obtain a token locally.
//
//	go run ./cmd/token -user 1 -role OWNER
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-seat-reservation/internal/middleware"
	"github.com/iliyamo/room-seat-reservation/internal/utils"
)

func main() {
	_ = godotenv.Load()

	user := flag.Uint64("user", 1, "user id placed in the sub claim")
	role := flag.String("role", middleware.RoleCustomer, "OWNER or CUSTOMER")
	ttl := flag.Duration("ttl", 15*time.Minute, "token lifetime")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret (defaults to $JWT_SECRET)")
	flag.Parse()

	r := strings.ToUpper(*role)
	if r != middleware.RoleOwner && r != middleware.RoleCustomer {
		log.Fatalf("unknown role %q", *role)
	}
	if *secret == "" {
		log.Fatal("missing signing secret: set JWT_SECRET or pass -secret")
	}

	tok, err := utils.NewAccessToken(*secret, *user, r, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
