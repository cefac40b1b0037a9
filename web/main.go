package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/web/server"
)

func main() {
	var (
		port         int
		scenesDir    string
		settingsFile string
	)

	cmd := &cobra.Command{
		Use:          "pathtracer-web",
		Short:        "Progressive path tracer web server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := renderer.DefaultSettings()
			if settingsFile != "" {
				var err error
				if settings, err = loaders.LoadSettings(settingsFile); err != nil {
					return err
				}
			}

			log.Printf("Progressive Path Tracer Web Server")
			log.Printf("Visit http://localhost:%d to start rendering", port)
			return server.NewServer(port, scenesDir, settings).Start()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "port to serve on")
	cmd.Flags().StringVar(&scenesDir, "scenes", "scenes", "directory of YAML scene files")
	cmd.Flags().StringVar(&settingsFile, "settings", "", "TOML settings file with render defaults")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
