/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/yggdrasil/pkg/api"
	"github.com/ssargent/yggdrasil/pkg/config"
	"github.com/ssargent/yggdrasil/pkg/index"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve an index over HTTP",
	Long: `Start the REST API server over an index file with API key
authentication. Port, bind address, and API key default to the values in
the config file; an api_key of "auto" generates a fresh key at startup.

Example:
  ygg serve books.idx --api-key=mysecretkey --port=8080`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")

		if port == 0 {
			port = cfg.Port
		}
		if bind == "" {
			bind = cfg.Bind
		}
		if apiKey == "" {
			apiKey = cfg.Security.APIKey
		}
		if apiKey == "" || apiKey == "auto" {
			generated, err := config.GenerateSecureKey(32)
			if err != nil {
				fmt.Printf("Error generating API key: %v\n", err)
				os.Exit(1)
			}
			apiKey = generated
			fmt.Printf("Generated API key: %s\n", apiKey)
		}

		session := index.NewSession()
		if err := session.Open(resolveIndexPath(args[0])); err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer session.Close()

		serverConfig := api.ServerConfig{
			Port:   port,
			Bind:   bind,
			APIKey: apiKey,
		}
		log.Fatal(api.StartServer(session, serverConfig))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().String("bind", "", "Bind address (default from config)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (default from config)")
}
