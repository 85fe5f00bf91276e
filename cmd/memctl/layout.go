package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/mem/cabi"
)

var (
	layoutModel string
	layoutUnion bool
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().StringVar(&layoutModel, "model", "lp64", "Data model: lp64 or ilp32")
	cmd.Flags().BoolVar(&layoutUnion, "union", false, "Lay out as a union instead of a struct")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <type>...",
		Short: "Compute a C aggregate layout",
		Long: `The layout command places a sequence of scalar members the way a C
compiler would and prints each member's offset plus the aggregate size
and alignment. Member types: char, short, int, long, longlong, float,
double, pointer.

Example:
  memctl layout char int pointer
  memctl layout --model ilp32 --union int double`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(args)
		},
	}
}

var kindByName = map[string]cabi.Kind{
	"char":     cabi.Char,
	"short":    cabi.Short,
	"int":      cabi.Int,
	"long":     cabi.Long,
	"longlong": cabi.LongLong,
	"float":    cabi.Float,
	"double":   cabi.Double,
	"pointer":  cabi.Pointer,
}

type layoutOutput struct {
	Model   string         `json:"model"`
	Union   bool           `json:"union"`
	Size    int            `json:"size"`
	Align   int            `json:"align"`
	Members []layoutMember `json:"members"`
}

type layoutMember struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

func runLayout(args []string) error {
	var model cabi.Model
	switch layoutModel {
	case "lp64":
		model = cabi.LP64
	case "ilp32":
		model = cabi.ILP32
	default:
		return fmt.Errorf("unknown data model %q", layoutModel)
	}

	fields := make([]cabi.Field, 0, len(args))
	for i, name := range args {
		kind, ok := kindByName[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown member type %q", name)
		}
		f, err := cabi.Scalar(model, fmt.Sprintf("m%d", i), kind)
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}

	var (
		l   cabi.Layout
		err error
	)
	if layoutUnion {
		l, err = cabi.Union(fields)
	} else {
		l, err = cabi.Struct(fields)
	}
	if err != nil {
		return err
	}

	out := layoutOutput{
		Model: layoutModel,
		Union: layoutUnion,
		Size:  l.Size,
		Align: l.Align,
	}
	for i, f := range fields {
		out.Members = append(out.Members, layoutMember{
			Type:   strings.ToLower(args[i]),
			Offset: l.Offsets[i],
			Size:   f.Size,
		})
	}
	if jsonOut {
		return printJSON(out)
	}

	for _, m := range out.Members {
		printInfo("  +%-4d %-8s (%d bytes)\n", m.Offset, m.Type, m.Size)
	}
	printInfo("size: %d, align: %d\n", out.Size, out.Align)
	return nil
}
