package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/client"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

var (
	profilePath string
	profile     Profile
	logger      *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shiftctl",
	Short: "shiftctl - gig shift attendance from the command line",
	Long: `shiftctl talks to the attendance API as a worker or as an operator.

Settings are read from ~/.shiftctl.yaml and can be overridden with flags.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		p, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("base-url"); v != "" {
			p.BaseURL = v
		}
		if v, _ := cmd.Flags().GetString("token"); v != "" {
			p.Token = v
		}
		if v, _ := cmd.Flags().GetString("lang"); v != "" {
			p.Language = v
		}
		profile = p
		return profile.validate()
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("shiftctl version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", defaultProfilePath(), "Profile file")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL")
	rootCmd.PersistentFlags().String("token", "", "Bearer token")
	rootCmd.PersistentFlags().String("lang", "", "Operator UI language (en, ko)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(checkInCmd)
	rootCmd.AddCommand(checkOutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(workersCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(profileCmd)
}

func newClient() *client.Client {
	return client.New(profile.BaseURL, profile.Token)
}

func language() confirmation.Language {
	return confirmation.Language(profile.Language)
}

// Profile commands
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or save the CLI profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Profile: %s\n", profilePath)
		fmt.Printf("  Base URL: %s\n", profile.BaseURL)
		fmt.Printf("  Token set: %t\n", profile.Token != "")
		fmt.Printf("  Language: %s\n", profile.Language)
		fmt.Printf("  Report interval: %s\n", profile.ReportInterval)
		return nil
	},
}

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the effective profile, including flag overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := saveProfile(profilePath, profile); err != nil {
			return err
		}
		fmt.Printf("✓ Profile saved to %s\n", profilePath)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSaveCmd)
}
