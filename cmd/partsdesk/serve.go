package main

import (
	"github.com/spf13/cobra"

	"parts-desk/internal/ingest"
	"parts-desk/internal/middleware"
	"parts-desk/internal/repository"
	"parts-desk/internal/server"
	"parts-desk/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host  string
		port  int
		root  string
		store string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and the record delete endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("root") {
				cfg.Server.Root = root
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Path = store
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			svc := service.NewStoreService(
				repository.NewJSONFileRepository(cfg.Store.Path),
				ingest.NewParser(cfg.Ingest.Columns.Parser()),
			)

			headers := middleware.DefaultHeaderPolicy()
			headers.AllowOrigin = cfg.Server.AllowOrigin

			srv := server.New(server.Config{
				Host:            cfg.Server.Host,
				Port:            cfg.Server.Port,
				Root:            cfg.Server.Root,
				DeleteRoute:     cfg.Server.DeleteRoute,
				MetricsPath:     cfg.Server.MetricsPath,
				Headers:         headers,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				IdleTimeout:     cfg.Server.IdleTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			}, svc)

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host")
	cmd.Flags().IntVar(&port, "port", 0, "listen port")
	cmd.Flags().StringVar(&root, "root", "", "directory to serve")
	cmd.Flags().StringVar(&store, "store", "", "record store file")
	return cmd
}
