// Command schemagen writes the JSON schema of the configuration file.
package main

import (
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/flindersuni/xamlstyle/pkg/config"
)

var outFile = pflag.StringP("out", "o", "config.v1beta1.json", "Output file for the generated schema")

func main() {
	pflag.Parse()

	jsData, err := config.Schema()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
