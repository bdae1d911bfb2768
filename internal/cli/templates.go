package cli

import (
	"github.com/spf13/cobra"

	"github.com/youruser/eidqr/internal/app"
	"github.com/youruser/eidqr/internal/config"
	"github.com/youruser/eidqr/internal/templates"
)

func (c *CLI) templatesCommand() *cobra.Command {
	var (
		styles []string
		search string
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the card templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}

			printInfo(c.Out, "%s", StyleTitle.Render("Templates"))
			opt := templates.FilterOptions{FreeWords: search}
			for _, s := range styles {
				opt.Styles = append(opt.Styles, templates.BorderStyle(s))
			}
			first := a.Registry.First().ID
			for _, v := range templates.Filter(a.Registry.List(), opt) {
				marker := " "
				if v.ID == first && cfg.Templates.Default == "first" {
					marker = "*"
				}
				printDetail(c.Out, "%s %-3s %-16s %-7s %s", marker, v.ID, v.Name, v.BorderStyle, v.BorderColor)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&styles, "style", nil, "only show these border styles (solid, dashed, dotted, double, none)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show templates matching these words")
	return cmd
}
