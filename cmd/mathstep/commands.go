package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/registry"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/matcher"
	"github.com/aledsdavies/mathstep/runtime/resolver"
)

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse TEXT",
		Short: "Show the expression tree with node addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.engine.Parse(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(a.out, expr.Outline(tree))
			return nil
		},
	}
}

func (a *app) printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print TEXT",
		Short: "Re-print an expression in normalized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.engine.Parse(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, a.engine.Print(tree))
			return nil
		},
	}
}

func (a *app) resolveCmd() *cobra.Command {
	var flags clickFlags
	cmd := &cobra.Command{
		Use:   "resolve TEXT",
		Short: "Show the context, matching rules and outcome for a click",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.engine.Parse(args[0])
			if err != nil {
				return err
			}
			click, err := flags.target()
			if err != nil {
				return err
			}
			ctx := a.engine.ResolveContext(tree, click)
			if !ctx.Resolved {
				return steperr.NewAddressNotFound(click.Address.String())
			}
			matches := a.engine.Match(ctx)
			a.writeContext(ctx)
			a.writeMatches(matches)
			a.writeOutcome(a.engine.Select(matches, ""))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	var (
		primitive string
		at        string
	)
	cmd := &cobra.Command{
		Use:   "run TEXT",
		Short: "Execute one primitive at an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.engine.Parse(args[0])
			if err != nil {
				return err
			}
			addr, err := expr.ParseAddress(at)
			if err != nil {
				return &CLIError{Type: "usage", Message: fmt.Sprintf("invalid address %q", at), Details: err.Error()}
			}
			res, err := a.engine.Run(tree, registry.PrimitiveID(primitive), addr)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, a.engine.Print(res.Tree))
			return nil
		},
	}
	cmd.Flags().StringVar(&primitive, "primitive", "", "Primitive id, e.g. frac-lcd-scale")
	cmd.Flags().StringVar(&at, "at", "", "Address the primitive acts on (root when empty)")
	_ = cmd.MarkFlagRequired("primitive")
	return cmd
}

func (a *app) stepCmd() *cobra.Command {
	var (
		flags  clickFlags
		prefer string
	)
	cmd := &cobra.Command{
		Use:   "step TEXT",
		Short: "Run the whole pipeline for one click",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			click, err := flags.target()
			if err != nil {
				return err
			}
			res, err := a.engine.Step(args[0], click, registry.PrimitiveID(prefer))
			if err != nil {
				return err
			}

			useColor := a.color()
			switch res.Status() {
			case "step-applied":
				_, _ = fmt.Fprintf(a.out, "%s  %s\n", Colorize(res.After, ColorGreen, useColor), Colorize("("+res.Rule.ID+")", ColorGray, useColor))
			case "choice":
				_, _ = fmt.Fprintf(a.out, "%s\n", Colorize("choose one of:", ColorYellow, useColor))
				for _, id := range res.Options() {
					_, _ = fmt.Fprintf(a.out, "  %s\n", id)
				}
			case "diagnostic":
				_, _ = fmt.Fprintf(a.out, "%s %s\n", Colorize("diagnostic:", ColorRed, useColor), res.Rule.Label)
				if res.Diagnostic != nil {
					_, _ = fmt.Fprintf(a.out, "  %s\n", res.Diagnostic)
				}
			default:
				_, _ = fmt.Fprintf(a.out, "no step available (%s)\n", res.Outcome.Reason)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&prefer, "prefer", "", "Primitive to force when several are available")
	return cmd
}

func (a *app) rulesCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.engine.Registry()
			_, _ = fmt.Fprintf(a.out, "catalog %s, %d rules\n", reg.Version(), reg.Len())

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tCLICK\tPRIMITIVE\tDISPOSITION\tLABEL")
			for _, r := range reg.Rules() {
				if domain != "" && r.Domain != domain {
					continue
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Click, r.Primitive, r.Disposition, r.Label)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Only list rows of one domain, e.g. fractions")
	return cmd
}

func (a *app) writeContext(ctx resolver.NodeContext) {
	_, _ = fmt.Fprintf(a.out, "address:  %s\n", displayAddress(ctx.Address))
	_, _ = fmt.Fprintf(a.out, "action:   %s\n", displayAddress(ctx.ActionAddress))
	_, _ = fmt.Fprintf(a.out, "click:    %s\n", ctx.Click)
	if ctx.Operator != expr.OpNone {
		_, _ = fmt.Fprintf(a.out, "operator: %s\n", ctx.Operator)
		_, _ = fmt.Fprintf(a.out, "operands: %s, %s\n", displayType(ctx.Left), displayType(ctx.Right))
	}

	names := make([]string, 0)
	for _, g := range ctx.Guards.True() {
		names = append(names, g.String())
	}
	_, _ = fmt.Fprintf(a.out, "guards:   %s\n", strings.Join(names, ", "))
}

func (a *app) writeMatches(matches []matcher.Match) {
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(a.out, "matches:  none")
		return
	}
	_, _ = fmt.Fprintln(a.out, "matches:")
	for _, m := range matches {
		_, _ = fmt.Fprintf(a.out, "  %-32s %-22s %-12s score=%d\n", m.Rule.ID, m.Rule.Primitive, m.Rule.Disposition, m.Score)
	}
}

func (a *app) writeOutcome(out matcher.Outcome) {
	_, _ = fmt.Fprintf(a.out, "outcome:  %s", out.Kind)
	switch out.Kind {
	case matcher.NoCandidates:
		_, _ = fmt.Fprintf(a.out, " (%s)", out.Reason)
	case matcher.Choice:
		opts := make([]string, 0, len(out.Options()))
		for _, id := range out.Options() {
			opts = append(opts, string(id))
		}
		_, _ = fmt.Fprintf(a.out, " [%s]", strings.Join(opts, ", "))
	default:
		_, _ = fmt.Fprintf(a.out, " %s", out.Primitive)
	}
	_, _ = fmt.Fprintln(a.out)
}

func displayAddress(addr expr.Address) string {
	if addr.IsRoot() {
		return "root"
	}
	return addr.String()
}

func displayType(t registry.OperandType) string {
	if t == registry.OperandUnspecified {
		return "-"
	}
	return t.String()
}
