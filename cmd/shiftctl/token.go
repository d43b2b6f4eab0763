package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development access token signed with JWT_SECRET_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		workerID, _ := cmd.Flags().GetString("worker-id")
		expiry, _ := cmd.Flags().GetString("expires-in")
		save, _ := cmd.Flags().GetBool("save")

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
		secret := os.Getenv("JWT_SECRET_KEY")
		if secret == "" {
			return errors.New("JWT_SECRET_KEY is not set")
		}

		if !auth.Role(role).Valid() {
			return fmt.Errorf("role must be 'worker' or 'admin'")
		}
		if auth.Role(role) == auth.RoleWorker && workerID == "" {
			return fmt.Errorf("--worker-id is required for worker tokens")
		}

		token, expiresAt, err := jwt.NewJWTService(secret, expiry).GenerateAccessToken(workerID, auth.Role(role))
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		if save {
			profile.Token = token
			if err := saveProfile(profilePath, profile); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Token saved to %s (expires %s)\n", profilePath, time.Unix(expiresAt, 0).Format(time.RFC3339))
			return nil
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("role", string(auth.RoleWorker), "Token role (worker, admin)")
	tokenCmd.Flags().String("worker-id", "", "Worker ID claim")
	tokenCmd.Flags().String("expires-in", "12h", "Token lifetime")
	tokenCmd.Flags().Bool("save", false, "Store the token in the profile instead of printing it")
}
