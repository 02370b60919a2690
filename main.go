package main

import (
	"os"

	"github.com/cryol/pyapi-zabbix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
