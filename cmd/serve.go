package cmd

import (
	"github.com/microbooks/microbooks/internal/server"
	"github.com/microbooks/microbooks/internal/store"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(flagDB)
		if err != nil {
			return err
		}
		defer st.Close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr
		}
		srv := server.New(st, addr, cfg.Logger())
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from MICROBOOKS_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
