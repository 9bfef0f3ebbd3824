package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	token string
	cost  int
)

var rootCmd = &cobra.Command{
	Use:   "hash-admin-token",
	Short: "Hash an admin token for ADMIN_TOKEN_HASH",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if token == "" {
			buf := make([]byte, 24)
			if _, err := rand.Read(buf); err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			token = hex.EncodeToString(buf)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(token), cost)
		if err != nil {
			return fmt.Errorf("hash token: %w", err)
		}

		fmt.Printf("✅ Admin token hashed successfully!\n")
		fmt.Printf("   Token: %s\n", token)
		fmt.Printf("   ADMIN_TOKEN_HASH=%s\n", hashed)
		return nil
	},
}

func main() {
	rootCmd.Flags().StringVar(&token, "token", "", "token to hash (random when empty)")
	rootCmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}
