package cmd

import (
	"context"
	"fmt"

	"github.com/cryol/pyapi-zabbix/pkg/zabbix"
	"github.com/spf13/cobra"
)

var (
	hostIDFlag string

	getIDCmd = &cobra.Command{
		Use:   "get-id <object> <name>",
		Short: "Resolve the name of an object to its numeric id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			var opts []zabbix.LookupOption
			if hostIDFlag != "" {
				opts = append(opts, zabbix.WithHostID(hostIDFlag))
			}

			return zabbix.WithSession(cmd.Context(), client, func(ctx context.Context, c *zabbix.Client) error {
				id, err := c.GetID(ctx, args[0], args[1], opts...)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
)

func init() {
	rootCmd.AddCommand(getIDCmd)

	getIDCmd.Flags().StringVar(&hostIDFlag, "hostid", "", "only match objects of this host")
}
