package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/foscam/internal/config"
	"github.com/muurk/foscam/internal/version"
)

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved camera profiles",
		Long: `Save cameras under a name so that commands can use --profile instead
of --url. Profiles hold the URL, username and timeout; passwords are
never written to disk.`,
	}
	cmd.AddCommand(a.profileSaveCmd(), a.profileListCmd(), a.profileRemoveCmd())
	return cmd
}

func (a *app) profileSaveCmd() *cobra.Command {
	var makeDefault bool
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the camera given by --url under a name",
		Args:  cobra.ExactArgs(1),
		Example: `  foscam-ctl profile save porch --url http://192.168.0.100:88 --user viewer
  foscam-ctl profile save garage --url https://garage.local --default`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.url == "" {
				return fmt.Errorf("--url is required")
			}
			reg, path, err := a.loadRegistry()
			if err != nil {
				return err
			}

			name := args[0]
			p := &config.Profile{URL: a.url, Username: a.user, Timeout: a.timeout}
			if old := reg.GetProfile(name); old != nil {
				p.Record = old.Record
				p.IRMode = old.IRMode
				p.LastUsed = old.LastUsed
			}
			if err := reg.SetProfile(name, p); err != nil {
				return err
			}
			if makeDefault {
				reg.Default = name
			}
			if err := reg.SaveTo(path); err != nil {
				return err
			}

			return a.success("Profile saved", map[string]string{
				"Profile": name,
				"URL":     p.URL,
				"Default": fmt.Sprint(reg.Default == name),
				"File":    path,
			}, map[string]any{"name": name, "profile": p, "default": reg.Default == name})
		},
	}
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default profile")
	return cmd
}

func (a *app) profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := a.loadRegistry()
			if err != nil {
				return err
			}
			if a.format == formatJSON {
				return a.writeJSON(reg)
			}

			names := reg.ProfileNames()
			if len(names) == 0 {
				a.printer.Println("No profiles saved. Add one with 'foscam-ctl profile save <name> --url <url>'.")
				return nil
			}
			for _, name := range names {
				p := reg.GetProfile(name)
				marker := " "
				if name == reg.Default {
					marker = "*"
				}
				used := "never"
				if !p.LastUsed.IsZero() {
					used = p.LastUsed.Format(time.DateTime)
				}
				a.printer.Println(fmt.Sprintf("%s %-16s %-32s %-10s last used %s",
					marker, name, p.URL, reg.EffectiveUsername(p), used))
			}
			return nil
		},
	}
}

func (a *app) profileRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, path, err := a.loadRegistry()
			if err != nil {
				return err
			}
			if !reg.RemoveProfile(args[0]) {
				return fmt.Errorf("no profile named %q", args[0])
			}
			if err := reg.SaveTo(path); err != nil {
				return err
			}
			return a.success("Profile removed", map[string]string{"Profile": args[0]},
				map[string]string{"removed": args[0]})
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.format == formatJSON {
				return a.writeJSON(version.Get())
			}
			a.printer.Println("foscam-ctl " + version.Full())
			return nil
		},
	}
}
