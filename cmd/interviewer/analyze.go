package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/remaimber-it/interviewer/internal/infrastructure/config"
	"github.com/remaimber-it/interviewer/internal/service"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Analyze resume files and print skills and questions as JSON",
	Long:  "Analyze one or more resumes (PDF or plain text). Files are processed concurrently; results are printed as a JSON array in argument order.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeJobRole     string
	analyzeConcurrency int
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJobRole, "job-role", "", "Job role used to prioritise skills, e.g. \"Data Science\"")
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 4, "Maximum number of files analyzed at once")
	rootCmd.AddCommand(analyzeCmd)
}

type fileSkill struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Level string `json:"level"`
}

type fileQuestion struct {
	Skill    string `json:"skill"`
	Level    string `json:"level"`
	Question string `json:"question"`
	Solution string `json:"solution,omitempty"`
	Source   string `json:"source"`
}

type fileResult struct {
	File      string         `json:"file"`
	ID        string         `json:"id,omitempty"`
	Skills    []fileSkill    `json:"skills"`
	Questions []fileQuestion `json:"questions"`
	Error     string         `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	results := make([]fileResult, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, analyzeConcurrency))
	for i, path := range args {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			res, err := a.svc.Analyze(ctx, data, analyzeJobRole)
			if err != nil {
				// One unreadable resume should not abort the batch.
				results[i] = fileResult{
					File:      filepath.Base(path),
					Skills:    []fileSkill{},
					Questions: []fileQuestion{},
					Error:     err.Error(),
				}
				return nil
			}
			results[i] = toFileResult(path, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func toFileResult(path string, res *service.Result) fileResult {
	out := fileResult{
		File:      filepath.Base(path),
		ID:        res.ID,
		Skills:    make([]fileSkill, len(res.Skills)),
		Questions: make([]fileQuestion, len(res.Questions)),
	}
	for i, s := range res.Skills {
		out.Skills[i] = fileSkill{Name: s.Name, Key: s.Key, Level: string(s.Level)}
	}
	for i, q := range res.Questions {
		out.Questions[i] = fileQuestion{
			Skill:    q.Skill,
			Level:    string(q.Level),
			Question: q.Text,
			Solution: q.Solution,
			Source:   string(q.Source),
		}
	}
	return out
}
