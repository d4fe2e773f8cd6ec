package commands

import (
	"github.com/panyam/typeguess/typesys"
	"github.com/spf13/cobra"
)

// conversionCommand builds a command printing the candidates list returns for a type.
func conversionCommand(use, short, label string, list func(*session, *typesys.Type) []*typesys.Type) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <type>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			t, err := s.parseType(args[0])
			if err != nil {
				return err
			}
			printTypes(cmd.OutOrStdout(), label+" "+t.String(), list(s, t))
			return nil
		},
	}
}

func init() {
	AddCommand(conversionCommand("narrow", "List types a value of the given type can be narrowed to", "narrowing",
		func(s *session, t *typesys.Type) []*typesys.Type { return s.engine.NarrowingCandidates(t) }))
	AddCommand(conversionCommand("relax", "List types a value of the given type can be widened to", "relaxing",
		func(s *session, t *typesys.Type) []*typesys.Type { return s.engine.RelaxingCandidates(t) }))
}
