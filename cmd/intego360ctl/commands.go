package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domainauth "github.com/intego360/intego-ui/internal/domain/auth"
	"github.com/intego360/intego-ui/internal/domain/sector"
	"github.com/intego360/intego-ui/internal/http/templates/core"
	"github.com/intego360/intego-ui/internal/ports"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "intego360ctl",
		Short:         "Terminal client for the Intego360 district dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newStatusCmd(a),
		newOverviewCmd(a),
		newListCmd(a),
		newSectorCmd(a),
	)
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		username string
		password string
		remember bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the tokens in the credentials file",
		Long: `Sign in with the Identity API. When --password is omitted it is read
from the first line of standard input.

Examples:
  intego360ctl login --username mayor_gasabo
  echo "$PASSWORD" | intego360ctl login --username mayor_gasabo --remember`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = line
			}
			if strings.TrimSpace(username) == "" || password == "" {
				return errors.New("username and password are required")
			}

			state, err := a.session.Login(cmd.Context(), ports.LoginInput{
				Username:   strings.TrimSpace(username),
				Password:   password,
				RememberMe: remember,
			})
			if err != nil {
				return err
			}
			if !state.IsAuthenticated() {
				msg := state.Error
				a.session.ClearError()
				return errors.New(msg)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", state.User.DisplayName(), state.User.RoleLabel)
			return err
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Identity API username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	cmd.Flags().BoolVar(&remember, "remember", false, "ask for a long-lived refresh token")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.session.Logout(cmd.Context())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name\t%s\n", user.DisplayName())
			fmt.Fprintf(w, "Username\t%s\n", user.Username)
			fmt.Fprintf(w, "Role\t%s\n", user.RoleLabel)
			if user.District != "" {
				fmt.Fprintf(w, "District\t%s\n", user.District)
			}
			var sectors []string
			for _, s := range sector.All {
				if user.Permissions.Has(s.Permission()) {
					sectors = append(sectors, s.Title())
				}
			}
			fmt.Fprintf(w, "Sectors\t%s\n", strings.Join(sectors, ", "))
			return w.Flush()
		},
	}
}

// statusOutput mirrors GET /auth/status.
type statusOutput struct {
	Status          domainauth.Status `json:"status"`
	User            *domainauth.User  `json:"user,omitempty"`
	Error           string            `json:"error,omitempty"`
	IsLoading       bool              `json:"is_loading"`
	IsAuthenticated bool              `json:"is_authenticated"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the session state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.session.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(statusOutput{
				Status:          state.Status,
				User:            state.User,
				Error:           state.Error,
				IsLoading:       state.IsLoading(),
				IsAuthenticated: state.IsAuthenticated(),
			})
		},
	}
}

func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview [sector]",
		Short: "Show the headline numbers of a sector",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.resolveSector(user, firstArg(args))
			if err != nil {
				return err
			}
			ov, err := a.data.Overview(cmd.Context(), a.session, s)
			if err != nil {
				return dataError(err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s overview\n", s.Title())
			for _, m := range ov.Metrics {
				fmt.Fprintf(w, "%s\t%s\n", m.Label, core.FormatMetric(m.Value))
			}
			return w.Flush()
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list <sector> <resource>",
		Short: "List one page of a sector collection",
		Example: `  intego360ctl list agriculture farmers
  intego360ctl list health facilities --page 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.resolveSector(user, args[0])
			if err != nil {
				return err
			}
			resource := args[1]
			if !s.HasResource(resource) {
				return fmt.Errorf("unknown %s resource %q (valid: %s)", s, resource, strings.Join(s.Resources(), ", "))
			}
			if page < 1 {
				page = 1
			}
			p, err := a.data.List(cmd.Context(), a.session, s, resource, page)
			if err != nil {
				return dataError(err)
			}
			return printPage(cmd.OutOrStdout(), p, page)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func printPage(out io.Writer, p ports.Page, page int) error {
	if len(p.Results) == 0 {
		_, err := fmt.Fprintln(out, "No records.")
		return err
	}
	cols := core.Columns(p.Results)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(core.Humanize(c))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range p.Results {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = core.FormatCell(row[c])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	footer := fmt.Sprintf("Page %d, %d records", page, p.Count)
	if p.Next != "" {
		footer += fmt.Sprintf(" (more: --page %d)", page+1)
	}
	_, err := fmt.Fprintln(out, footer)
	return err
}

func newSectorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sector [name]",
		Short: "Show the sectors you can view and their sections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				s, err := a.resolveSector(user, args[0])
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, link := range s.Nav() {
					fmt.Fprintf(w, "%s\t%s\n", link.Name, link.Href)
				}
				return w.Flush()
			}
			current := a.sector.Current()
			for _, s := range sector.All {
				if !user.Permissions.Has(s.Permission()) {
					continue
				}
				marker := " "
				if s == current {
					marker = "*"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
