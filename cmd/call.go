package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cryol/pyapi-zabbix/pkg/zabbix"
	"github.com/spf13/cobra"
)

var (
	paramsFlag string
	paramFlags []string

	callCmd = &cobra.Command{
		Use:   "call <method>",
		Short: "Call an API method inside a login session",
		Long:  longCall,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(paramsFlag, paramFlags)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			return zabbix.WithSession(cmd.Context(), client, func(ctx context.Context, c *zabbix.Client) error {
				result, err := c.Call(ctx, args[0], params)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
)

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringVar(&paramsFlag, "params", "", "params as a JSON object")
	callCmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "a single param as key=value, the value is parsed as JSON when possible")
}

/*
parseParams merges a JSON object and key=value pairs into call params.
Pairs override keys of the object. A pair value that is valid JSON is
decoded, anything else is kept as a string.
*/
func parseParams(object string, pairs []string) (zabbix.Params, error) {
	params := zabbix.Params{}

	if strings.TrimSpace(object) != "" {
		if err := json.Unmarshal([]byte(object), &params); err != nil {
			return nil, fmt.Errorf("--params must be a JSON object: %w", err)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--param %q is not key=value", pair)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			decoded = value
		}

		params[key] = decoded
	}

	return params, nil
}

var longCall = `
Call any API method by its full name. The command logs in with the
configured credentials, runs the call and logs out again.

Examples:
  zabbix call host.get -p output='["hostid","host"]' -p limit=5
  zabbix call hostgroup.get --params '{"output":"extend","filter":{"name":["Linux servers"]}}'
`
