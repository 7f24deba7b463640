package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openkraft/codereview/internal/adapters/outbound/detector"
	"github.com/openkraft/codereview/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/codereview/internal/adapters/outbound/report"
	"github.com/openkraft/codereview/internal/adapters/outbound/tui"
	"github.com/openkraft/codereview/internal/application"
	"github.com/openkraft/codereview/internal/domain"
)

const stdinPath = "-"

// prefFlags are the preference flags shared by review, scan and watch.
type prefFlags struct {
	security  bool
	llm       bool
	llmReview bool
	only      []string
}

func (p *prefFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.security, "security", true, "Run the security linter during review")
	cmd.Flags().BoolVar(&p.llm, "llm", false, "Attach LLM explanations to the top findings (needs an API key)")
	cmd.Flags().BoolVar(&p.llmReview, "llm-review", false, "Append a whole-file LLM review (with --llm)")
	cmd.Flags().StringSliceVar(&p.only, "only", nil, "Only review these languages (python, javascript, typescript)")
}

func (p *prefFlags) preferences() domain.Preferences {
	return domain.Preferences{
		SelectedLanguages: p.only,
		EnableSecurity:    p.security,
		EnableLLM:         p.llm,
		LLMReview:         p.llmReview,
	}
}

type outputFlags struct {
	json  bool
	sarif bool
}

func (o *outputFlags) register(cmd *cobra.Command, sarif bool) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Output as JSON")
	if sarif {
		cmd.Flags().BoolVar(&o.sarif, "sarif", false, "Output as SARIF 2.1.0")
		cmd.MarkFlagsMutuallyExclusive("json", "sarif")
	}
}

type reviewOutput struct {
	Reviews []domain.FileReview `json:"reviews"`
	Fixes   []*domain.FixPlan   `json:"fixes,omitempty"`
}

func newReviewCmd(g *globals) *cobra.Command {
	var (
		prefs   prefFlags
		out     outputFlags
		lang    string
		changed bool
		fix     bool
		dryRun  bool
		failOn  string
	)

	cmd := &cobra.Command{
		Use:   "review [paths...]",
		Short: "Review source files and report diagnostics",
		Long: `Review files or directories (default: current directory). Use "-" to read
source from stdin together with --lang. With --changed, only files modified in
the git working tree are reviewed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := parseFailOn(failOn)
			if err != nil {
				return err
			}

			svcs, _, err := g.services()
			if err != nil {
				return err
			}

			var reviews []domain.FileReview
			switch {
			case len(args) == 1 && args[0] == stdinPath:
				r, err := reviewStdin(cmd, svcs, domain.Language(lang), prefs.preferences())
				if err != nil {
					return err
				}
				reviews = []domain.FileReview{r}

			case changed:
				paths, err := changedPaths(gitinfo.New(), detector.New(), args)
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), "no changed source files")
					return nil
				}
				if reviews, err = svcs.Files.ReviewFiles(cmd.Context(), paths, prefs.preferences()); err != nil {
					return fmt.Errorf("review failed: %w", err)
				}

			default:
				if len(args) == 0 {
					args = []string{"."}
				}
				if reviews, err = svcs.Files.ReviewFiles(cmd.Context(), args, prefs.preferences()); err != nil {
					return fmt.Errorf("review failed: %w", err)
				}
			}

			var plans []*domain.FixPlan
			if fix {
				for _, r := range reviews {
					if r.Err != "" || r.Path == stdinPath {
						continue
					}
					plan, err := svcs.Fix.ApplyFixes(r.Path, r.Diagnostics, dryRun)
					if err != nil {
						return fmt.Errorf("fix failed: %w", err)
					}
					plans = append(plans, plan)
				}
			}

			w := cmd.OutOrStdout()
			switch {
			case out.json:
				if err := report.WriteJSON(w, reviewOutput{Reviews: reviews, Fixes: plans}); err != nil {
					return err
				}
			case out.sarif:
				if err := report.WriteSARIF(w, version, reviews); err != nil {
					return err
				}
			default:
				renderReviews(w, reviews, plans)
			}

			return checkThreshold(reviews, threshold)
		},
	}

	prefs.register(cmd)
	out.register(cmd, true)
	cmd.Flags().StringVar(&lang, "lang", "", `Language of stdin source when the path is "-"`)
	cmd.Flags().BoolVar(&changed, "changed", false, "Review only files modified in the git working tree")
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply the literal fixes carried by diagnostics")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "With --fix, show the plan without writing files")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit non-zero when a diagnostic at or above this severity is found (error, warning, suggestion, info)")

	return cmd
}

func reviewStdin(cmd *cobra.Command, svcs *application.Services, lang domain.Language, prefs domain.Preferences) (domain.FileReview, error) {
	if lang == "" {
		return domain.FileReview{}, fmt.Errorf("--lang is required when reading from stdin")
	}
	code, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return domain.FileReview{}, fmt.Errorf("reading stdin: %w", err)
	}
	diags, err := svcs.Review.Review(cmd.Context(), domain.ReviewRequest{
		FilePath:    stdinPath,
		Language:    lang,
		Code:        string(code),
		Preferences: prefs,
	})
	if err != nil {
		return domain.FileReview{}, err
	}
	return domain.FileReview{Path: stdinPath, Language: lang, Diagnostics: diags}, nil
}

// changedPaths lists modified files with a review pipeline in the repository
// named by args (default: current directory).
func changedPaths(git domain.ChangeLister, det domain.LanguageDetector, args []string) ([]string, error) {
	repo := "."
	if len(args) > 0 {
		repo = args[0]
	}
	if !git.IsGitRepo(repo) {
		return nil, fmt.Errorf("%s is not inside a git repository", repo)
	}
	files, err := git.ChangedFiles(repo)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	var paths []string
	for _, f := range files {
		if det.Detect(f).Supported() {
			paths = append(paths, f)
		}
	}
	return paths, nil
}

func renderReviews(w io.Writer, reviews []domain.FileReview, plans []*domain.FixPlan) {
	r := tui.NewRenderer(isTTY(w))
	for _, rev := range reviews {
		if rev.Err != "" {
			fmt.Fprintf(w, "%s: %s\n\n", rev.Path, rev.Err)
			continue
		}
		fmt.Fprint(w, r.RenderReview(rev.Path, rev.Language, rev.Diagnostics))
	}
	for _, p := range plans {
		verb := "applied"
		if p.DryRun {
			verb = "would apply"
		}
		fmt.Fprintf(w, "%s: %s %d fix(es), skipped %d\n", p.Path, verb, len(p.Applied), p.Skipped)
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && tui.IsTerminal(f)
}

func parseFailOn(s string) (domain.Severity, error) {
	if s == "" {
		return "", nil
	}
	sev := domain.Severity(strings.ToLower(s))
	if sev.Rank() == 0 {
		return "", fmt.Errorf("invalid --fail-on %q (valid: error, warning, suggestion, info)", s)
	}
	return sev, nil
}

func checkThreshold(reviews []domain.FileReview, threshold domain.Severity) error {
	if threshold == "" {
		return nil
	}
	var n int
	for _, r := range reviews {
		for _, d := range r.Diagnostics {
			if d.Severity.Rank() >= threshold.Rank() {
				n++
			}
		}
	}
	if n > 0 {
		return fmt.Errorf("found %d diagnostic(s) at or above %s", n, threshold)
	}
	return nil
}
