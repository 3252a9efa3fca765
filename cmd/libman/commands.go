package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smarty/libman/cdnjs"
	"github.com/smarty/libman/contracts"
)

func newRootCmd(settings *viper.Viper) *cobra.Command {
	var app *App
	root := &cobra.Command{
		Use:           "libman",
		Short:         "Restores client-side libraries declared in a manifest.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(settings, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			app, err = NewApp(config)
			return err
		},
	}
	defineFlags(root.PersistentFlags())
	application := func() *App { return app }
	root.AddCommand(
		newRestoreCmd(application),
		newInstallCmd(application),
		newUninstallCmd(application),
		newCleanCmd(application),
		newSearchCmd(application),
		newVersionsCmd(application),
		newVersionCmd(),
	)
	return root
}

func newRestoreCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [library...]",
		Short: "Install every library in the manifest, or only the named ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().outcome(cmd.OutOrStdout(), "restored", app().Restore(cmd.Context(), args...))
		},
	}
}

func newInstallCmd(app func() *App) *cobra.Command {
	state := new(contracts.LibraryInstallationState)
	command := &cobra.Command{
		Use:   "install <library>",
		Short: "Install one library and add it to the manifest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state.LibraryId = args[0]
			result, err := app().Install(cmd.Context(), state)
			if err != nil {
				return err
			}
			return app().outcome(cmd.OutOrStdout(), "installed", []*contracts.InstallationResult{result})
		},
	}
	command.Flags().StringVar(&state.ProviderId, "provider", cdnjs.ProviderID, "The provider that supplies the library.")
	command.Flags().StringVar(&state.DestinationPath, "destination", "", "The directory, relative to the project, that receives the files.")
	command.Flags().StringSliceVar(&state.Files, "files", nil, "The files to install (defaults to every file of the library).")
	_ = command.MarkFlagRequired("destination")
	return command
}

func newUninstallCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <library>",
		Short: "Delete a library's files and remove it from the manifest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := app().Uninstall(cmd.Context(), args[0])
			if err != nil && len(results) == 0 {
				return err
			}
			if failure := app().outcome(cmd.OutOrStdout(), "uninstalled", results); failure != nil {
				return failure
			}
			return err
		},
	}
}

func newCleanCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the files of every library, keeping the manifest.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().outcome(cmd.OutOrStdout(), "cleaned", app().Clean(cmd.Context()))
		},
	}
}

func newSearchCmd(app func() *App) *cobra.Command {
	var providerId string
	var max int
	command := &cobra.Command{
		Use:   "search <term>",
		Short: "Search a provider's catalog.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app().Search(cmd.Context(), providerId, args[0], max)
			if err != nil {
				return err
			}
			for _, group := range groups {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s  %s\n", app().palette.name.Sprint(group.Name), group.Version, group.Description)
			}
			return nil
		},
	}
	command.Flags().StringVar(&providerId, "provider", cdnjs.ProviderID, "The provider whose catalog is searched.")
	command.Flags().IntVar(&max, "max", 10, "The maximum number of results (0 for all).")
	return command
}

func newVersionsCmd(app func() *App) *cobra.Command {
	var providerId string
	command := &cobra.Command{
		Use:   "versions <name>",
		Short: "List the published versions of a library.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := app().Versions(cmd.Context(), providerId, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(versions, "\n"))
			return nil
		},
	}
	command.Flags().StringVar(&providerId, "provider", cdnjs.ProviderID, "The provider whose catalog is queried.")
	return command
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the libman version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "libman [%s]\n", ldflagsSoftwareVersion)
		},
	}
}

var ldflagsSoftwareVersion = "debug"
