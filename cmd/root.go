/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "certfolio",
	Short: "Certfolio certificate-portfolio API server",
	Long: `Certfolio is the backend for the certificate-portfolio web app:
users register, upload certificate files, attach metadata and publish a
shareable public profile listing their certificates.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
