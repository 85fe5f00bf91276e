package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/hexutil"
	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/alloc"
	"github.com/joshuapare/memkit/mem/bitops"
	"github.com/joshuapare/memkit/mem/int128"
	"github.com/joshuapare/memkit/mem/limb"
)

var (
	arithMode   string
	arithSigned bool
)

func init() {
	cmd := newArithCmd()
	cmd.PersistentFlags().
		StringVar(&arithMode, "mode", "native", "Bit engine mode: native or arithmetic")
	cmd.PersistentFlags().
		BoolVar(&arithSigned, "signed", false, "Treat operands as signed two's complement")
	rootCmd.AddCommand(cmd)
}

func newArithCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arith",
		Short: "128-bit integer arithmetic",
		Long: `The arith commands compute 128-bit integer operations on heap-resident
values. Operands are hex with an optional 0x prefix; signed operands may
carry a leading minus.

Example:
  memctl arith add 0xffffffffffffffff 1
  memctl arith shl 0x12345678 8 --mode arithmetic
  memctl arith cmp -0x10 0x10 --signed`,
	}
	cmd.AddCommand(
		newArithBinCmd("add", "Add two 128-bit values"),
		newArithBinCmd("sub", "Subtract two 128-bit values"),
		newArithBinCmd("cmp", "Compare two 128-bit values"),
		newArithShiftCmd("shl", "Shift a 128-bit value left"),
		newArithShiftCmd("shr", "Shift a 128-bit value right"),
	)
	return cmd
}

func newArithBinCmd(op, short string) *cobra.Command {
	return &cobra.Command{
		Use:   op + " <a> <b>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArith(op, args[0], args[1])
		},
	}
}

func newArithShiftCmd(op, short string) *cobra.Command {
	return &cobra.Command{
		Use:   op + " <value> <count>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArith(op, args[0], args[1])
		},
	}
}

type arithResult struct {
	Op     string `json:"op"`
	Mode   string `json:"mode"`
	Signed bool   `json:"signed"`
	A      string `json:"a"`
	B      string `json:"b,omitempty"`
	Result string `json:"result,omitempty"`
	Cmp    *int   `json:"cmp,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runArith(op, argA, argB string) error {
	mode, err := bitops.ParseMode(arithMode)
	if err != nil {
		return err
	}
	h, err := mem.New(4096)
	if err != nil {
		return err
	}
	defer h.Close()
	arena, err := alloc.NewArena(h, nil)
	if err != nil {
		return err
	}
	f, err := int128.NewFactory(arena, mode)
	if err != nil {
		return err
	}

	res := arithResult{Op: op, Mode: mode.String(), Signed: arithSigned, A: argA, B: argB}
	if arithSigned {
		err = runArithSigned(f, op, argA, argB, &res)
	} else {
		err = runArithUnsigned(f, op, argA, argB, &res)
	}
	if err != nil {
		if errors.Is(err, int128.ErrOverflow) || errors.Is(err, int128.ErrUnderflow) {
			res.Error = err.Error()
		} else {
			return err
		}
	}

	if jsonOut {
		return printJSON(res)
	}
	if res.Error != "" {
		printInfo("%s\n", res.Error)
		return nil
	}
	if res.Cmp != nil {
		printInfo("%d\n", *res.Cmp)
		return nil
	}
	printInfo("%s\n", res.Result)
	return nil
}

func runArithUnsigned(f *int128.Factory, op, argA, argB string, res *arithResult) error {
	a, err := parseUnsigned(f, argA)
	if err != nil {
		return err
	}
	defer a.Free()

	if op == "shl" || op == "shr" {
		n, err := parseCount(argB)
		if err != nil {
			return err
		}
		var out *int128.Unsigned
		if op == "shl" {
			out, err = a.ShiftLeft(n)
		} else {
			out, err = a.ShiftRight(n)
		}
		if err != nil {
			return err
		}
		defer out.Free()
		res.Result, err = out.Hex()
		return err
	}

	b, err := parseUnsigned(f, argB)
	if err != nil {
		return err
	}
	defer b.Free()

	switch op {
	case "add":
		out, err := a.Add(b)
		if err != nil {
			return err
		}
		defer out.Free()
		res.Result, err = out.Hex()
		return err
	case "sub":
		out, err := a.Sub(b)
		if err != nil {
			return err
		}
		defer out.Free()
		res.Result, err = out.Hex()
		return err
	case "cmp":
		c, err := a.Cmp(b)
		if err != nil {
			return err
		}
		res.Cmp = &c
		return nil
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func runArithSigned(f *int128.Factory, op, argA, argB string, res *arithResult) error {
	a, err := parseSigned(f, argA)
	if err != nil {
		return err
	}
	defer a.Free()

	if op == "shl" || op == "shr" {
		n, err := parseCount(argB)
		if err != nil {
			return err
		}
		var out *int128.Signed
		if op == "shl" {
			out, err = a.ShiftLeft(n)
		} else {
			out, err = a.ShiftRight(n)
		}
		if err != nil {
			return err
		}
		defer out.Free()
		res.Result, err = out.Hex()
		return err
	}

	b, err := parseSigned(f, argB)
	if err != nil {
		return err
	}
	defer b.Free()

	switch op {
	case "add":
		out, err := a.Add(b)
		if err != nil {
			return err
		}
		defer out.Free()
		res.Result, err = out.Hex()
		return err
	case "sub":
		out, err := a.Sub(b)
		if err != nil {
			return err
		}
		defer out.Free()
		res.Result, err = out.Hex()
		return err
	case "cmp":
		c, err := a.Cmp(b)
		if err != nil {
			return err
		}
		res.Cmp = &c
		return nil
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

// parseHexValue parses an unsigned hex literal (optional 0x prefix, at
// most 32 digits) into limbs.
func parseHexValue(s string) (limb.Value, error) {
	var v limb.Value
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if s == "" || !hexutil.Valid(s) {
		return v, fmt.Errorf("bad hex value %q", s)
	}
	if len(s) > limb.Limbs*4 {
		return v, fmt.Errorf("value %q exceeds 128 bits", s)
	}
	s = hexutil.Pad(s, limb.Limbs*4)
	for i := 0; i < limb.Limbs; i++ {
		group := s[len(s)-4*(i+1) : len(s)-4*i]
		n, err := strconv.ParseUint(group, 16, 16)
		if err != nil {
			return v, err
		}
		v[i] = uint16(n)
	}
	return v, nil
}

func parseUnsigned(f *int128.Factory, s string) (*int128.Unsigned, error) {
	v, err := parseHexValue(s)
	if err != nil {
		return nil, err
	}
	u, err := f.Unsigned()
	if err != nil {
		return nil, err
	}
	if err := v.Store(f.Arena().Heap(), u.Addr()); err != nil {
		u.Free()
		return nil, err
	}
	return u, nil
}

func parseSigned(f *int128.Factory, s string) (*int128.Signed, error) {
	neg := strings.HasPrefix(s, "-")
	v, err := parseHexValue(strings.TrimPrefix(s, "-"))
	if err != nil {
		return nil, err
	}
	out, err := f.Signed()
	if err != nil {
		return nil, err
	}
	if err := v.Store(f.Arena().Heap(), out.Addr()); err != nil {
		out.Free()
		return nil, err
	}
	if !neg {
		return out, nil
	}
	negated, err := out.Negate()
	out.Free()
	if err != nil {
		return nil, err
	}
	return negated, nil
}

func parseCount(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad shift count %q: %w", s, err)
	}
	return uint(n), nil
}
