package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/remaimber-it/interviewer/internal/infrastructure/config"
)

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Check that a question suits a skill and level",
	RunE:  runJudge,
}

var (
	judgeSkill    string
	judgeLevel    string
	judgeQuestion string
)

func init() {
	judgeCmd.Flags().StringVar(&judgeSkill, "skill", "", "Skill key, e.g. python")
	judgeCmd.Flags().StringVar(&judgeLevel, "level", "intermediate", "beginner, intermediate or advanced")
	judgeCmd.Flags().StringVarP(&judgeQuestion, "question", "q", "", "Question text")
	_ = judgeCmd.MarkFlagRequired("skill")
	_ = judgeCmd.MarkFlagRequired("question")
	rootCmd.AddCommand(judgeCmd)
}

func runJudge(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Judging never needs the model.
	cfg.LLMProvider = "none"

	a, err := buildApp(cmd.Context(), cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer a.Close()

	verdict := a.svc.Judge(cmd.Context(), judgeSkill, judgeLevel, judgeQuestion)
	return json.NewEncoder(cmd.OutOrStdout()).Encode(verdict)
}
