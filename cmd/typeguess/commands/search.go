package commands

import (
	"github.com/panyam/typeguess/guess"
	"github.com/spf13/cobra"
)

var (
	memberName  string
	memberArity int
	searchAt    int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List types referenced in the file that declare a method",
	Long: `Walk the file, resolve every simple name to a type and report the types whose
hierarchy declares a method with the given name and argument count. With --offset only
types usable from the declaration enclosing that offset are reported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		var scope guess.Context
		if cmd.Flags().Changed("offset") {
			n, err := s.nodeAt(searchAt)
			if err != nil {
				return err
			}
			scope.Type, scope.Method = s.binder.ContextAt(n)
		}
		found, err := s.engine.FindTypesDeclaringMember(cmd.Context(), s.src.Tree.Root(), memberName, memberArity, scope)
		printTypes(cmd.OutOrStdout(), "types declaring "+memberName, found)
		return err
	},
}

func init() {
	searchCmd.Flags().StringVar(&memberName, "name", "", "Method name")
	searchCmd.Flags().IntVar(&memberArity, "args", 0, "Argument count")
	searchCmd.Flags().IntVarP(&searchAt, "offset", "o", 0, "Restrict to types usable at this byte offset")
	searchCmd.MarkFlagRequired("name")
	AddCommand(searchCmd)
}
