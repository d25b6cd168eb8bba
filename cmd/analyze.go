package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepterm/internal/api"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a job description against your resume",
	Long:  "Analyze posts a job description (and optionally a resume) to the backend and prints the gap, plan, and ATS report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		jdPath, _ := cmd.Flags().GetString("jd")
		resumePath, _ := cmd.Flags().GetString("resume")
		pdfPath, _ := cmd.Flags().GetString("resume-pdf")

		if resumePath != "" && pdfPath != "" {
			return errors.New("use --resume or --resume-pdf, not both")
		}

		jd, err := os.ReadFile(jdPath)
		if err != nil {
			return fmt.Errorf("read jd: %w", err)
		}
		in := api.AnalyzeInput{JDText: string(jd)}

		if resumePath != "" {
			resume, err := os.ReadFile(resumePath)
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			in.ResumeText = string(resume)
		}
		if pdfPath != "" {
			pdf, err := os.ReadFile(pdfPath)
			if err != nil {
				return fmt.Errorf("read resume pdf: %w", err)
			}
			in.ResumePDF = pdf
			in.PDFName = filepath.Base(pdfPath)
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.client.Analyze(cmd.Context(), in)
		if err != nil {
			return err
		}
		printAnalysis(cmd, report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("jd", "", "Path to the job description text file")
	analyzeCmd.Flags().String("resume", "", "Path to the resume text file")
	analyzeCmd.Flags().String("resume-pdf", "", "Path to the resume PDF")
	analyzeCmd.MarkFlagRequired("jd")
}

func printAnalysis(cmd *cobra.Command, r *api.AnalysisReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, r.Summary)
	fmt.Fprintf(out, "\nRole fit %d/100 · ATS %d/100\n", r.RoleFitScore, r.ATSScore)

	printList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(out, "\n%s:\n", title)
		for _, item := range items {
			fmt.Fprintln(out, "  -", item)
		}
	}
	printList("Matched skills", r.MatchedSkills)
	printList("Missing skills", r.MissingSkills)
	printList("ATS warnings", r.ATSWarnings)
	printList("ATS keywords to add", r.ATSKeywordsToAdd)
	printList("Experience expectations", r.ExperienceExpectations)
	printList("Focus areas", r.GapReport.FocusAreas)

	if len(r.RequiredSkills) > 0 {
		fmt.Fprintln(out, "\nRequired skills:")
		for _, sk := range r.RequiredSkills {
			line := fmt.Sprintf("  - %s (%s)", sk.Name, sk.Importance)
			if sk.EvidenceInJD != nil && *sk.EvidenceInJD != "" {
				line += ": " + *sk.EvidenceInJD
			}
			fmt.Fprintln(out, line)
		}
	}

	if len(r.StarRewrites) > 0 {
		fmt.Fprintln(out, "\nSTAR rewrites:")
		for _, sr := range r.StarRewrites {
			fmt.Fprintln(out, "  before:", sr.Original)
			fmt.Fprintln(out, "  after: ", sr.Rewritten)
			if sr.Reasoning != "" {
				fmt.Fprintln(out, "  why:   ", sr.Reasoning)
			}
			fmt.Fprintln(out)
		}
	}
}
