package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/service"
)

var classifyCmd = &cobra.Command{
	Use:     "classify",
	Short:   "Clasifica un contacto a partir de las respuestas de riesgo",
	Example: "  ggdctl classify --household no --distance yesLessThan15min --physical yes",
	RunE: func(cmd *cobra.Command, args []string) error {
		risks, err := risksFromFlags(cmd)
		if err != nil {
			return err
		}
		ev := service.ClassificationService{}.Evaluate(risks)
		printEvaluation(cmd.OutOrStdout(), ev.Result, ev.VisibleRisks)
		return nil
	},
}

func init() {
	classifyCmd.Flags().String("household", "unknown", "same household: yes|no|unknown")
	classifyCmd.Flags().String("distance", "unknown", "distance: no|yesLessThan15min|yesMoreThan15min|unknown")
	classifyCmd.Flags().String("physical", "unknown", "physical contact: yes|no|unknown")
	classifyCmd.Flags().String("same-room", "unknown", "same room: yes|no|unknown")
}

func risksFromFlags(cmd *cobra.Command) (domain.Risks, error) {
	var risks domain.Risks
	var err error

	household, _ := cmd.Flags().GetString("household")
	if risks.SameHousehold, err = parseAnswer(household); err != nil {
		return risks, fmt.Errorf("--household: %w", err)
	}
	distance, _ := cmd.Flags().GetString("distance")
	if risks.Distance, err = parseDistanceAnswer(distance); err != nil {
		return risks, fmt.Errorf("--distance: %w", err)
	}
	physical, _ := cmd.Flags().GetString("physical")
	if risks.PhysicalContact, err = parseAnswer(physical); err != nil {
		return risks, fmt.Errorf("--physical: %w", err)
	}
	sameRoom, _ := cmd.Flags().GetString("same-room")
	if risks.SameRoom, err = parseAnswer(sameRoom); err != nil {
		return risks, fmt.Errorf("--same-room: %w", err)
	}
	return risks, nil
}

// parseAnswer traduce yes|no|unknown a un *bool; unknown devuelve nil.
func parseAnswer(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown":
		return nil, nil
	case "yes", "true":
		return domain.Bool(true), nil
	case "no", "false":
		return domain.Bool(false), nil
	}
	return nil, fmt.Errorf("invalid answer %q (want yes|no|unknown)", s)
}

func parseDistanceAnswer(s string) (*domain.Distance, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") {
		return nil, nil
	}
	d, err := domain.ParseDistance(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func printEvaluation(w io.Writer, res domain.ClassificationResult, visible []domain.Risk) {
	fmt.Fprintf(w, "result: %s\n", res)
	names := make([]string, len(visible))
	for i, r := range visible {
		names[i] = string(r)
	}
	fmt.Fprintf(w, "visible risks: %s\n", strings.Join(names, ", "))
}
