// meshio - mesh file inspection and conversion tool.
//
// Reads PLY, OBJ, 3DS, STL, glTF/GLB, and this module's own internal binary
// format, and converts any of them into that binary format.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "meshio",
		Short: "Mesh file inspection and conversion tool",
		Long: `meshio - mesh file inspection and conversion tool

Reads PLY, OBJ, 3DS, STL, glTF/GLB, and this module's own internal binary
format.`,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <model>",
		Short: "Display information about a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}

	var outPath string
	convertCmd := &cobra.Command{
		Use:   "convert <model> --out <out.bin>",
		Short: "Convert a mesh file to this module's internal binary format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], outPath)
		},
	}
	convertCmd.Flags().StringVar(&outPath, "out", "", "Destination binary file (required)")
	convertCmd.MarkFlagRequired("out")

	root.AddCommand(inspectCmd, convertCmd)

	// fang.Execute wraps cobra's own Execute with styled help/usage output
	// and uniform error formatting.
	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}
