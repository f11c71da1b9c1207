package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pdfmcq/internal/client"
	"pdfmcq/internal/config"
	"pdfmcq/internal/domain"
	"pdfmcq/internal/logger"
	"pdfmcq/internal/session"
)

// NewPlayCmd builds the CLI subcommand that uploads a PDF and runs the
// quiz session interactively.
func NewPlayCmd(configPath, apiBase *string) *cobra.Command {
	var questionCount int
	cmd := &cobra.Command{
		Use:   "play <pdf>",
		Short: "Upload a PDF and take the generated quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, *apiBase, args[0], questionCount)
		},
	}
	cmd.Flags().IntVarP(&questionCount, "questions", "n", 0, "number of questions to request (bounded by the backend)")
	return cmd
}

func runPlay(ctx context.Context, configPath, base, pdfPath string, questionCount int) error {
	// play works without a config file; flags and env carry the defaults.
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Config{}
	}
	log := logger.Setup(cfg.Log.Level, "pretty")

	if base == "" {
		base = cfg.Client.APIBase
	}
	if base == "" {
		base = "http://localhost:8080"
	}
	api := client.New(base, config.Duration(cfg.Client.UploadTimeout, 5*time.Minute))

	maxQuestions := client.DefaultMaxQuestions
	if remote, err := api.FetchConfig(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load backend config; using defaults")
	} else {
		maxQuestions = remote.MaxQuestions
	}
	if questionCount <= 0 || questionCount > maxQuestions {
		questionCount = maxQuestions
	}

	file, err := os.Open(pdfPath)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}

	view := newTermRenderer(os.Stdout)
	ctrl := session.NewController(api, view)

	doc := session.Document{
		Name:    filepath.Base(pdfPath),
		Content: file,
		Size:    info.Size(),
	}
	if err := ctrl.StartSession(ctx, doc, questionCount); err != nil {
		return err
	}

	return answerLoop(ctx, ctrl, os.Stdin)
}

// answerLoop reads answers from the terminal until the quiz completes
// or input ends.
func answerLoop(ctx context.Context, ctrl *session.Controller, in *os.File) error {
	scanner := bufio.NewScanner(in)
	for {
		current, ok := currentQuestion(ctrl.Store().Questions())
		if !ok {
			return nil
		}

		fmt.Printf("Your answer (A-%c, q to quit): ", 'A'+len(current.Options)-1)
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "q") {
			return nil
		}

		err := ctrl.AnswerCurrent(ctx, current.ID, parseOption(input, len(current.Options)))
		if err != nil && !errors.Is(err, session.ErrNoOptionSelected) {
			// Feedback was already rendered; service errors are
			// re-triggerable, so keep the loop alive.
			continue
		}
	}
}

func currentQuestion(questions []domain.SnapshotQuestion) (domain.SnapshotQuestion, bool) {
	for _, q := range questions {
		if !q.IsCorrect {
			return q, true
		}
	}
	return domain.SnapshotQuestion{}, false
}

// parseOption accepts a letter (A, b) or a 1-based number; anything
// else maps to -1 so the controller rejects it as no selection.
func parseOption(input string, optionCount int) int {
	input = strings.TrimSpace(input)
	if input == "" {
		return -1
	}
	if len(input) == 1 {
		c := strings.ToUpper(input)[0]
		if c >= 'A' && int(c-'A') < optionCount {
			return int(c - 'A')
		}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= optionCount {
		return n - 1
	}
	return -1
}
