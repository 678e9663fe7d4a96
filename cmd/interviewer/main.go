// Package main is the resume interviewer command: an HTTP API server plus
// one-shot analysis and judging commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// @title           Resume Interviewer API
// @version         1.0
// @description     Detects technical skills in a resume and generates level-appropriate interview questions.

// @host      localhost:8000
// @BasePath  /

var rootCmd = &cobra.Command{
	Use:           "interviewer",
	Short:         "Resume skill detection and interview question generation",
	Long:          "interviewer reads resumes, infers technical skills with a proficiency level, and produces interview questions from a curated bank or a language model.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
