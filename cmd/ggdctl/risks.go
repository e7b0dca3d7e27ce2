package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/service"
)

var risksCmd = &cobra.Command{
	Use:   "risks <category>",
	Short: "Muestra las respuestas canónicas para una categoría",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := domain.ParseCategory(args[0])
		if err != nil {
			return err
		}
		printRisks(cmd.OutOrStdout(), service.ClassificationService{}.RisksForCategory(category))
		return nil
	},
}

func printRisks(w io.Writer, r domain.Risks) {
	fmt.Fprintf(w, "same household:   %s\n", formatAnswer(r.SameHousehold))
	distance := "unknown"
	if r.Distance != nil {
		distance = string(*r.Distance)
	}
	fmt.Fprintf(w, "distance:         %s\n", distance)
	fmt.Fprintf(w, "physical contact: %s\n", formatAnswer(r.PhysicalContact))
	fmt.Fprintf(w, "same room:        %s\n", formatAnswer(r.SameRoom))
}

func formatAnswer(b *bool) string {
	switch {
	case b == nil:
		return "unknown"
	case *b:
		return "yes"
	default:
		return "no"
	}
}
