package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	_ "tableadmin/internal/db/dialects"

	"tableadmin/internal/db"
	"tableadmin/internal/gateway"
	"tableadmin/internal/introspect"
	"tableadmin/internal/logger"
	"tableadmin/pkg/config"
)

type cmdGlobal struct {
	flagConfig  string
	flagDriver  string
	flagDSN     string
	flagTimeout int
}

func main() {
	global := &cmdGlobal{}

	app := &cobra.Command{
		Use:           "tableadmin",
		Short:         "Browse and edit the tables of an existing database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.PersistentFlags().StringVar(&global.flagConfig, "config", filepath.Join(".", "configs", "example.yaml"), "path to config YAML")
	app.PersistentFlags().StringVar(&global.flagDriver, "driver", "", "db driver override (postgres,mysql,sqlite,sqlserver,godror)")
	app.PersistentFlags().StringVar(&global.flagDSN, "dsn", "", "dsn override")
	app.PersistentFlags().IntVar(&global.flagTimeout, "timeout", 0, "db connect timeout seconds (default 10)")

	serve := &cmdServe{global: global}
	serveCmd := serve.Command()
	app.AddCommand(serveCmd)
	app.RunE = serveCmd.RunE
	app.Flags().AddFlagSet(serveCmd.Flags())

	app.AddCommand((&cmdTables{global: global}).Command())
	app.AddCommand((&cmdSchema{global: global}).Command())
	app.AddCommand((&cmdSeed{global: global}).Command())

	if err := app.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file (optional) and applies CLI overrides.
func (g *cmdGlobal) loadConfig() (config.AppConfig, error) {
	var appCfg config.AppConfig
	if g.flagConfig != "" {
		logger.Info("config file %s", g.flagConfig)
		if c, err := config.LoadFile(g.flagConfig); err == nil {
			appCfg = c
		} else {
			logger.Error("error reading config file: %v", err)
		}
	}

	// allow CLI overrides
	if g.flagDriver != "" && g.flagDSN != "" {
		appCfg.Database.Type = g.flagDriver
		appCfg.Database.DSN = g.flagDSN
		appCfg.Database.Host = ""
		appCfg.Database.Port = 0
		appCfg.Database.Username = ""
		appCfg.Database.Password = ""
		appCfg.Database.DatabaseName = ""
	}
	if g.flagTimeout > 0 {
		appCfg.Database.Timeout = g.flagTimeout
	}

	if err := logger.Configure(appCfg.Log.Level, appCfg.Log.Format); err != nil {
		return appCfg, err
	}
	if err := appCfg.Validate(); err != nil {
		return appCfg, err
	}
	return appCfg, nil
}

// open connects the shared pool described by appCfg.
func open(appCfg config.AppConfig) (*db.Pool, error) {
	driver, dsn, err := config.BuildDriverAndDSN(appCfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("registered dialects: %v", db.RegisteredDialects())
	pool, err := db.Open(driver, dsn, appCfg.Database.Timeout)
	if err != nil {
		return nil, err
	}
	if appCfg.Database.MaxOpenConns > 0 {
		pool.DB.SetMaxOpenConns(appCfg.Database.MaxOpenConns)
	}
	logger.Info("connected to %s", pool.Driver)
	return pool, nil
}

// components builds the catalog and gateway over pool.
func components(appCfg config.AppConfig, pool *db.Pool) (*introspect.Catalog, *gateway.Gateway, error) {
	catalog := introspect.New(pool, pool.Dialect, appCfg.Database.Schema)
	gw, err := gateway.New(pool, pool.Dialect, catalog, gateway.Options{
		RowLimit:      appCfg.Gateway.RowLimit,
		KeyColumn:     appCfg.Gateway.KeyColumn,
		StrictColumns: appCfg.Gateway.StrictColumns,
	})
	if err != nil {
		return nil, nil, err
	}
	return catalog, gw, nil
}
