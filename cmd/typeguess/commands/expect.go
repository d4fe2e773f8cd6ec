package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var offset int

var expectCmd = &cobra.Command{
	Use:   "expect",
	Short: "Print the type expected at an offset",
	Long: `Print the type the surrounding code expects at a byte offset of the file. When no
type can be inferred but the position names a type, the admissible kinds of type are
printed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		n, err := s.nodeAt(offset)
		if err != nil {
			return err
		}
		res, err := s.engine.Guess(n, s.modern)
		if err != nil {
			return fmt.Errorf("at offset %d: %w", offset, err)
		}
		printNode(cmd.OutOrStdout(), n)
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "Print the kinds of type admissible at an offset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		n, err := s.nodeAt(offset)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		printNode(w, n)
		k := s.engine.AdmissibleTypeKinds(n, s.modern)
		if k == 0 {
			noneColor.Fprintln(w, "no kinds")
			return nil
		}
		labelColor.Fprint(w, "kinds: ")
		typeColor.Fprintln(w, KindLabels(k))
		return nil
	},
}

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Print the type expression a variable initializer or array access at an offset expects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		n, err := s.nodeAt(offset)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		printNode(w, n)
		te, ok := s.engine.ReconstructDeclaredType(n)
		if !ok {
			noneColor.Fprintln(w, "no declared type")
			return nil
		}
		labelColor.Fprint(w, "declared type: ")
		typeColor.Fprintln(w, te.String())
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{expectCmd, kindsCmd, reconstructCmd} {
		cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Byte offset into the file")
		cmd.MarkFlagRequired("offset")
		AddCommand(cmd)
	}
}
