package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
	"github.com/yungbote/neurobridge-tutor/internal/services"
)

type rootOptions struct {
	catalogPath  string
	defaultGrade int
}

type profileFlags struct {
	grade int
	score float64
	lang  string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.grade, "grade", 5, "Student grade level")
	cmd.Flags().Float64Var(&f.score, "score", 0, "Performance score, 0-100")
	cmd.Flags().StringVar(&f.lang, "lang", "", "Language preference (english, hindi, hinglish)")
}

func (f *profileFlags) ref() services.ProfileRef {
	return services.ProfileRef{Profile: &persona.StudentProfile{
		GradeLevel:         f.grade,
		PerformanceScore:   f.score,
		LanguagePreference: f.lang,
	}}
}

var errCatalogIssues = errors.New("catalog has issues")

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "tutorctl",
		Short:         "Inspect the tutor persona catalog and try selections offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", "", "Path to a persona catalog YAML (default: embedded catalog)")
	root.PersistentFlags().IntVar(&opts.defaultGrade, "default-grade", 5, "Grade whose catalog serves grades without their own")

	root.AddCommand(
		newValidateCmd(opts),
		newPersonasCmd(opts),
		newSelectCmd(opts),
		newPromptCmd(opts),
		newRankCmd(opts),
	)
	return root
}

// tutor builds the same service the API serves, without a profile store.
func (o *rootOptions) tutor() (services.TutorService, error) {
	reg, err := persona.LoadRegistry(o.catalogPath)
	if err != nil {
		return nil, err
	}
	resolver, err := persona.NewResolver(reg, o.defaultGrade)
	if err != nil {
		return nil, err
	}
	return services.NewTutorService(logger.NewNop(), resolver, nil, nil), nil
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and report data-quality issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tutor, err := opts.tutor()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			issues := tutor.ValidateCatalog()
			for _, issue := range issues {
				fmt.Fprintln(out, issue.String())
			}
			if len(issues) > 0 {
				return fmt.Errorf("%w: %d found", errCatalogIssues, len(issues))
			}
			fmt.Fprintf(out, "ok: %d personas\n", len(tutor.AllPersonas()))
			return nil
		},
	}
}

func newPersonasCmd(opts *rootOptions) *cobra.Command {
	var grade int
	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List personas, optionally for one grade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tutor, err := opts.tutor()
			if err != nil {
				return err
			}
			personas := tutor.AllPersonas()
			if cmd.Flags().Changed("grade") {
				res, err := tutor.ListPersonas(ctxOf(cmd), grade)
				if err != nil {
					return err
				}
				if res.FellBack {
					fmt.Fprintf(cmd.ErrOrStderr(), "no catalog for grade %d, showing grade %d\n", grade, res.Catalog.Grade())
				}
				personas = res.Catalog.Personas()
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tGRADE\tARCHETYPE\tNAME")
			for _, p := range personas {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.ID, p.GradeLevel, p.Archetype, p.FullName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&grade, "grade", 0, "Only list the catalog serving this grade")
	return cmd
}

func newSelectCmd(opts *rootOptions) *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show which persona a student profile gets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tutor, err := opts.tutor()
			if err != nil {
				return err
			}
			sel, err := tutor.Select(ctxOf(cmd), pf.ref())
			if err != nil {
				return err
			}
			writeSelection(cmd.OutOrStdout(), sel)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newPromptCmd(opts *rootOptions) *cobra.Command {
	var (
		pf        profileFlags
		personaID string
		subject   string
		timeOfDay string
		mood      string
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt composed for a student profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tutor, err := opts.tutor()
			if err != nil {
				return err
			}
			req := services.ComposeRequest{
				ProfileRef: pf.ref(),
				PersonaID:  personaID,
				Subject:    subject,
			}
			if timeOfDay != "" || mood != "" {
				req.Context = &persona.SelectionContext{
					Subject:     subject,
					TimeOfDay:   persona.TimeOfDay(strings.ToLower(strings.TrimSpace(timeOfDay))),
					StudentMood: mood,
				}
			}
			composed, err := tutor.Compose(ctxOf(cmd), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "# persona:", composed.Persona.ID)
			fmt.Fprintln(cmd.OutOrStdout(), composed.Prompt)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&personaID, "persona", "", "Compose for this persona id instead of selecting one")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject to adapt the prompt to")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "Time of day (morning, afternoon, evening, night)")
	cmd.Flags().StringVar(&mood, "mood", "", "Free-form student mood")
	return cmd
}

func newRankCmd(opts *rootOptions) *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank every persona of the student's grade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tutor, err := opts.tutor()
			if err != nil {
				return err
			}
			recs, err := tutor.Recommend(ctxOf(cmd), pf.ref())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tID\tREASON")
			for _, r := range recs {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Score, r.Persona.ID, r.Reason)
			}
			return tw.Flush()
		},
	}
	pf.register(cmd)
	return cmd
}

func writeSelection(w io.Writer, sel services.Selection) {
	fmt.Fprintf(w, "persona:   %s (%s)\n", sel.Persona.ID, sel.Persona.DisplayName())
	fmt.Fprintf(w, "archetype: %s\n", sel.Persona.Archetype)
	fmt.Fprintf(w, "preferred: %s\n", sel.Preferred)
	fmt.Fprintf(w, "tier:      %s\n", sel.Tier)
	if sel.FellBack {
		fmt.Fprintf(w, "catalog:   grade %d (fallback)\n", sel.CatalogGrade)
	} else {
		fmt.Fprintf(w, "catalog:   grade %d\n", sel.CatalogGrade)
	}
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
