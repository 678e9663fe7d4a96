package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/infrastructure/config"
	"github.com/remaimber-it/interviewer/internal/service"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Print a fresh question for a skill and level",
	RunE:  runRefresh,
}

var (
	refreshSkill      string
	refreshLevel      string
	refreshExclude    string
	refreshResumeFile string
)

func init() {
	refreshCmd.Flags().StringVar(&refreshSkill, "skill", "", "Skill key, e.g. python")
	refreshCmd.Flags().StringVar(&refreshLevel, "level", "intermediate", "beginner, intermediate or advanced")
	refreshCmd.Flags().StringVar(&refreshExclude, "exclude", "", "Question to avoid")
	refreshCmd.Flags().StringVar(&refreshResumeFile, "resume", "", "Plain-text resume used to personalise the question")
	_ = refreshCmd.MarkFlagRequired("skill")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := buildApp(cmd.Context(), cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer a.Close()

	var hint string
	if refreshResumeFile != "" {
		b, err := os.ReadFile(refreshResumeFile)
		if err != nil {
			return err
		}
		hint = string(b)
	}

	q, err := a.svc.Refresh(cmd.Context(), service.RefreshRequest{
		Skill:      refreshSkill,
		Level:      questionbank.Level(refreshLevel),
		Exclude:    refreshExclude,
		ResumeText: hint,
	})
	if err != nil {
		return err
	}

	return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
		"skill":    q.Skill,
		"level":    string(q.Level),
		"question": q.Text,
		"solution": q.Solution,
		"source":   string(q.Source),
	})
}
