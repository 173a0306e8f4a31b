package main

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tableadmin/internal/introspect"
	"tableadmin/internal/seed"
)

type cmdTables struct {
	global *cmdGlobal
}

func (c *cmdTables) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "tables"
	cmd.Short = "List the tables of the configured schema"
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.Run
	return cmd
}

func (c *cmdTables) Run(cmd *cobra.Command, args []string) error {
	appCfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}
	pool, err := open(appCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	catalog, _, err := components(appCfg, pool)
	if err != nil {
		return err
	}
	tables, err := catalog.Tables(context.Background())
	if err != nil {
		return err
	}
	renderTables(cmd.OutOrStdout(), tables)
	return nil
}

type cmdSchema struct {
	global *cmdGlobal
}

func (c *cmdSchema) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "schema <table>"
	cmd.Short = "Show the columns of a table"
	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = c.Run
	return cmd
}

func (c *cmdSchema) Run(cmd *cobra.Command, args []string) error {
	appCfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}
	pool, err := open(appCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	catalog, _, err := components(appCfg, pool)
	if err != nil {
		return err
	}
	cols, err := catalog.Columns(context.Background(), args[0])
	if err != nil {
		return err
	}
	renderColumns(cmd.OutOrStdout(), cols)
	return nil
}

type cmdSeed struct {
	global *cmdGlobal
}

func (c *cmdSeed) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "seed [file]"
	cmd.Short = "Run a SQL script against the database"
	cmd.Long = `Run a SQL script against the database

  Without an argument the seed_file from the server section of the config
  is used.`
	cmd.Args = cobra.MaximumNArgs(1)
	cmd.RunE = c.Run
	return cmd
}

func (c *cmdSeed) Run(cmd *cobra.Command, args []string) error {
	appCfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}
	path := appCfg.Server.SeedFile
	if len(args) == 1 {
		path = args[0]
	}

	pool, err := open(appCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := seed.Run(context.Background(), pool, path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Database seeded successfully")
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(header)
	return table
}

func renderTables(w io.Writer, tables []introspect.Table) {
	table := newTable(w, []string{"TABLE"})
	for _, t := range tables {
		table.Append([]string{t.Name})
	}
	table.Render()
}

func renderColumns(w io.Writer, cols []introspect.Column) {
	table := newTable(w, []string{"COLUMN", "TYPE", "DEFAULT", "GENERATED", "NULLABLE", "PK"})
	for _, c := range cols {
		def := ""
		if c.Default != nil {
			def = *c.Default
		}
		table.Append([]string{c.Name, c.Type, def, yesNo(c.Generated), yesNo(c.Nullable), yesNo(c.PK)})
	}
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
